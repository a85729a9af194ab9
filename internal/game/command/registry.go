package command

import (
	"fmt"
	"strings"
)

// Registry resolves typed words to commands. Names and aliases share one
// namespace and are matched case-insensitively.
type Registry struct {
	cmds   []Command
	lookup map[string]int
}

// Group is a help category and its commands in registration order.
type Group struct {
	Category string
	Commands []*Command
}

// NewRegistry indexes cmds by name and alias.
//
// Postcondition: Returns an error if any name or alias is claimed twice.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{
		cmds:   append([]Command(nil), cmds...),
		lookup: make(map[string]int),
	}
	for i, c := range r.cmds {
		for _, word := range append([]string{c.Name}, c.Aliases...) {
			key := strings.ToLower(word)
			if prev, taken := r.lookup[key]; taken {
				return nil, fmt.Errorf("command %q: %q already used by %q", c.Name, word, r.cmds[prev].Name)
			}
			r.lookup[key] = i
		}
	}
	return r, nil
}

// DefaultRegistry builds the registry of built-in commands and panics if
// they collide.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve returns the command whose name or alias is word.
func (r *Registry) Resolve(word string) (*Command, bool) {
	i, ok := r.lookup[strings.ToLower(word)]
	if !ok {
		return nil, false
	}
	return &r.cmds[i], true
}

// Commands returns every command in registration order.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, len(r.cmds))
	for i := range r.cmds {
		out[i] = &r.cmds[i]
	}
	return out
}

// Groups buckets the commands by category, ordered by each category's first
// appearance.
func (r *Registry) Groups() []Group {
	var groups []Group
	index := make(map[string]int)
	for _, c := range r.Commands() {
		i, ok := index[c.Category]
		if !ok {
			i = len(groups)
			index[c.Category] = i
			groups = append(groups, Group{Category: c.Category})
		}
		groups[i].Commands = append(groups[i].Commands, c)
	}
	return groups
}
