package memory

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Seed каталог для драйвера memory, читается из TOML файла
type Seed struct {
	Organizations []SeedOrganization `toml:"organizations"`
}

type SeedOrganization struct {
	ID       string        `toml:"id"`
	Services []SeedService `toml:"services"`
	Staff    []SeedStaff   `toml:"staff"`
}

type SeedService struct {
	ID              string  `toml:"id"`
	Name            string  `toml:"name"`
	DurationMinutes int     `toml:"duration_minutes"`
	Price           float64 `toml:"price"`
	Active          *bool   `toml:"active"`
}

type SeedStaff struct {
	ID     string `toml:"id"`
	Name   string `toml:"name"`
	Active *bool  `toml:"active"`
	// День недели в нижнем регистре -> интервалы "HH:MM-HH:MM"
	Hours map[string][]string `toml:"hours"`
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// LoadSeedFile читает каталог из TOML файла
func LoadSeedFile(path string) (*Seed, error) {
	var seed Seed
	if _, err := toml.DecodeFile(path, &seed); err != nil {
		return nil, fmt.Errorf("memory.seed: decode %s: %w", path, err)
	}
	return &seed, nil
}

// ApplySeed загружает каталог в хранилище. Записи с существующими ID заменяются.
func (s *Store) ApplySeed(seed *Seed) error {
	catalog := s.Catalog()
	for _, org := range seed.Organizations {
		if org.ID == "" {
			return fmt.Errorf("memory.seed: organization id is required")
		}
		for _, svc := range org.Services {
			service := &domain.Service{
				ID:              svc.ID,
				Name:            svc.Name,
				DurationMinutes: svc.DurationMinutes,
				Price:           svc.Price,
				IsActive:        svc.Active == nil || *svc.Active,
			}
			if err := catalog.PutService(org.ID, service); err != nil {
				return fmt.Errorf("memory.seed: %s: %w", org.ID, err)
			}
		}
		for _, st := range org.Staff {
			hours, err := ParseWorkingHours(st.Hours)
			if err != nil {
				return fmt.Errorf("memory.seed: %s: staff %s: %w", org.ID, st.ID, err)
			}
			staff := &domain.StaffMember{
				ID:           st.ID,
				Name:         st.Name,
				WorkingHours: hours,
				IsActive:     st.Active == nil || *st.Active,
			}
			if err := catalog.PutStaff(org.ID, staff); err != nil {
				return fmt.Errorf("memory.seed: %s: %w", org.ID, err)
			}
		}
	}
	return nil
}

// ParseWorkingHours разбирает {"monday": ["09:00-17:00"]} в domain.WorkingHours
func ParseWorkingHours(raw map[string][]string) (domain.WorkingHours, error) {
	hours := make(domain.WorkingHours, len(raw))
	for name, intervals := range raw {
		day, ok := weekdays[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown weekday %q", domain.ErrInvalidRequest, name)
		}
		for _, interval := range intervals {
			rng, err := parseInterval(interval)
			if err != nil {
				return nil, err
			}
			hours[day] = append(hours[day], rng)
		}
	}
	if err := hours.Validate(); err != nil {
		return nil, err
	}
	return hours, nil
}

func parseInterval(s string) (domain.TimeRange, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return domain.TimeRange{}, fmt.Errorf("%w: interval %q must look like HH:MM-HH:MM", domain.ErrInvalidRequest, s)
	}
	start, err := types.NewTimeStringFromString(strings.TrimSpace(parts[0]))
	if err != nil {
		return domain.TimeRange{}, fmt.Errorf("%w: interval %q: %v", domain.ErrInvalidRequest, s, err)
	}
	end, err := types.NewTimeStringFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return domain.TimeRange{}, fmt.Errorf("%w: interval %q: %v", domain.ErrInvalidRequest, s, err)
	}
	return domain.TimeRange{Start: start, End: end}, nil
}
