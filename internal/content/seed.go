package content

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Seed holds initial content loaded from a YAML file. It is applied once,
// on first boot against an empty database, so a fresh install has a
// presentable site before any editing happens.
type Seed struct {
	Settings map[string]string `yaml:"settings"`
	Banners  []SeedBanner      `yaml:"banners"`
	About    []SeedAbout       `yaml:"about"`
	Services []SeedService     `yaml:"services"`
	Overview []SeedOverview    `yaml:"overview"`
}

type SeedBanner struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	ImageURL string `yaml:"image_url"`
	LinkURL  string `yaml:"link_url"`
}

type SeedAbout struct {
	Heading  string `yaml:"heading"`
	Body     string `yaml:"body"`
	ImageURL string `yaml:"image_url"`
}

type SeedService struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"image_url"`
}

type SeedOverview struct {
	Year  int    `yaml:"year"`
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// LoadSeed reads and parses a seed file. A missing file is not an error;
// it returns a nil Seed, which Apply treats as a no-op.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &seed, nil
}

// Seeder applies seed content to empty repositories.
type Seeder struct {
	Settings SettingsRepository
	Banners  BannerRepository
	About    AboutRepository
	Services ServiceRepository
	Overview OverviewRepository

	Logger *zap.Logger
}

// Apply inserts seed content into each repository that is still empty.
// Repositories with existing rows are left alone, so re-running against a
// populated database never duplicates content.
func (s *Seeder) Apply(ctx context.Context, seed *Seed) error {
	if seed == nil {
		return nil
	}
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if len(seed.Settings) > 0 {
		existing, err := s.Settings.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
		if len(existing) == 0 {
			for key, value := range seed.Settings {
				if err := s.Settings.Set(ctx, key, value); err != nil {
					return fmt.Errorf("seed setting %q: %w", key, err)
				}
			}
			log.Info("seeded settings", zap.Int("count", len(seed.Settings)))
		}
	}

	if len(seed.Banners) > 0 {
		existing, err := s.Banners.List(ctx)
		if err != nil {
			return fmt.Errorf("seed banners: %w", err)
		}
		if len(existing) == 0 {
			for i, sb := range seed.Banners {
				b := &Banner{
					Title:    sb.Title,
					Subtitle: sb.Subtitle,
					ImageURL: sb.ImageURL,
					LinkURL:  sb.LinkURL,
					Position: i,
					Active:   true,
				}
				if err := s.Banners.Create(ctx, b); err != nil {
					return fmt.Errorf("seed banner %q: %w", sb.Title, err)
				}
			}
			log.Info("seeded banners", zap.Int("count", len(seed.Banners)))
		}
	}

	if len(seed.About) > 0 {
		existing, err := s.About.List(ctx)
		if err != nil {
			return fmt.Errorf("seed about: %w", err)
		}
		if len(existing) == 0 {
			for i, sa := range seed.About {
				sec := &AboutSection{
					Heading:  sa.Heading,
					Body:     sa.Body,
					ImageURL: sa.ImageURL,
					Position: i,
				}
				if err := s.About.Create(ctx, sec); err != nil {
					return fmt.Errorf("seed about section %q: %w", sa.Heading, err)
				}
			}
			log.Info("seeded about sections", zap.Int("count", len(seed.About)))
		}
	}

	if len(seed.Services) > 0 {
		existing, err := s.Services.List(ctx)
		if err != nil {
			return fmt.Errorf("seed services: %w", err)
		}
		if len(existing) == 0 {
			for i, ss := range seed.Services {
				svc := &Service{
					Title:       ss.Title,
					Description: ss.Description,
					ImageURL:    ss.ImageURL,
					Position:    i,
				}
				if err := s.Services.Create(ctx, svc); err != nil {
					return fmt.Errorf("seed service %q: %w", ss.Title, err)
				}
			}
			log.Info("seeded services", zap.Int("count", len(seed.Services)))
		}
	}

	if len(seed.Overview) > 0 {
		existing, err := s.Overview.List(ctx)
		if err != nil {
			return fmt.Errorf("seed overview: %w", err)
		}
		if len(existing) == 0 {
			for _, so := range seed.Overview {
				item := &OverviewItem{
					Year:  so.Year,
					Title: so.Title,
					Body:  so.Body,
				}
				if so.Year == 0 {
					item.Year = time.Now().Year()
				}
				if err := s.Overview.Create(ctx, item); err != nil {
					return fmt.Errorf("seed overview item %q: %w", so.Title, err)
				}
			}
			log.Info("seeded overview items", zap.Int("count", len(seed.Overview)))
		}
	}

	return nil
}
