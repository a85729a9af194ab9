package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/skirmish/internal/game/character"
	"github.com/cory-johannsen/skirmish/internal/game/inventory"
	"github.com/cory-johannsen/skirmish/internal/storage"
)

// CharacterRepository persists character sheets in the characters table.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Load retrieves the character owned by actorID.
//
// Postcondition: Returns the Character or storage.ErrCharacterNotFound.
func (r *CharacterRepository) Load(ctx context.Context, actorID string) (*character.Character, error) {
	var (
		c                  character.Character
		statsRaw, equipRaw []byte
		skills             []string
		cooldowns          []int32
	)
	err := r.db.QueryRow(ctx, `
		SELECT actor_id, name, level, experience, gold, base_stats, equipment,
		       current_hp, skills, cooldowns, created_at, updated_at
		FROM characters WHERE actor_id = $1`,
		actorID,
	).Scan(
		&c.ActorID, &c.Name, &c.Level, &c.Experience, &c.Gold, &statsRaw, &equipRaw,
		&c.CurrentHP, &skills, &cooldowns, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}

	if err := json.Unmarshal(statsRaw, &c.BaseStats); err != nil {
		return nil, fmt.Errorf("decoding base stats for %q: %w", actorID, err)
	}
	if err := json.Unmarshal(equipRaw, &c.Equipment); err != nil {
		return nil, fmt.Errorf("decoding equipment for %q: %w", actorID, err)
	}
	for i := 0; i < character.LoadoutSize; i++ {
		if i < len(skills) {
			c.Skills[i] = skills[i]
		}
		if i < len(cooldowns) {
			c.Cooldowns[i] = int(cooldowns[i])
		}
	}
	c.Normalize()
	return &c, nil
}

// Save upserts c keyed by its actor ID and refreshes c's timestamps from the row.
//
// Precondition: c.ActorID must be non-empty.
// Postcondition: The stored row matches c; CreatedAt is preserved across updates.
func (r *CharacterRepository) Save(ctx context.Context, c *character.Character) error {
	if c.ActorID == "" {
		return errors.New("saving character: actor id must not be empty")
	}
	stats, err := json.Marshal(nonNilStats(c.BaseStats))
	if err != nil {
		return fmt.Errorf("encoding base stats: %w", err)
	}
	equip, err := json.Marshal(nonNilEquipment(c.Equipment))
	if err != nil {
		return fmt.Errorf("encoding equipment: %w", err)
	}
	cooldowns := make([]int32, character.LoadoutSize)
	for i, cd := range c.Cooldowns {
		cooldowns[i] = int32(cd)
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO characters
			(actor_id, name, level, experience, gold, base_stats, equipment,
			 current_hp, skills, cooldowns)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (actor_id) DO UPDATE SET
			name = EXCLUDED.name,
			level = EXCLUDED.level,
			experience = EXCLUDED.experience,
			gold = EXCLUDED.gold,
			base_stats = EXCLUDED.base_stats,
			equipment = EXCLUDED.equipment,
			current_hp = EXCLUDED.current_hp,
			skills = EXCLUDED.skills,
			cooldowns = EXCLUDED.cooldowns,
			updated_at = NOW()
		RETURNING created_at, updated_at`,
		c.ActorID, c.Name, c.Level, c.Experience, c.Gold, stats, equip,
		c.CurrentHP, c.Skills[:], cooldowns,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving character %q: %w", c.ActorID, err)
	}
	return nil
}

// Delete removes the character owned by actorID.
//
// Postcondition: Returns nil on success, storage.ErrCharacterNotFound if no row was deleted.
func (r *CharacterRepository) Delete(ctx context.Context, actorID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE actor_id = $1`, actorID)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrCharacterNotFound
	}
	return nil
}

func nonNilStats(m map[character.Stat]int) map[character.Stat]int {
	if m == nil {
		return map[character.Stat]int{}
	}
	return m
}

func nonNilEquipment(m map[inventory.Slot]string) map[inventory.Slot]string {
	if m == nil {
		return map[inventory.Slot]string{}
	}
	return m
}
