package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/portfolio-feed/internal/core/domain"
)

// Portfolio is the category and gazetteer configuration for the feed.
type Portfolio struct {
	Categories []domain.Category `yaml:"categories"`
	Gazetteer  []string          `yaml:"gazetteer"`
}

// Portfolio resolves categories and gazetteer from PORTFOLIO_CATEGORIES and
// PORTFOLIO_GAZETTEER, then lets the YAML file at PORTFOLIO_CONFIG_PATH
// override whatever it sets.
func (c Config) Portfolio() (Portfolio, error) {
	categories, err := ParseCategories(c.PortfolioCategories)
	if err != nil {
		return Portfolio{}, err
	}
	p := Portfolio{
		Categories: categories,
		Gazetteer:  parseList(c.PortfolioGazetteer),
	}

	if c.PortfolioConfigPath != "" {
		raw, err := os.ReadFile(c.PortfolioConfigPath)
		if err != nil {
			return Portfolio{}, fmt.Errorf("read portfolio config: %w", err)
		}
		fromFile, err := ParsePortfolioYAML(raw)
		if err != nil {
			return Portfolio{}, err
		}
		if len(fromFile.Categories) > 0 {
			p.Categories = fromFile.Categories
		}
		if len(fromFile.Gazetteer) > 0 {
			p.Gazetteer = fromFile.Gazetteer
		}
	}

	if len(p.Gazetteer) == 0 {
		p.Gazetteer = append([]string(nil), domain.DefaultGazetteer...)
	}
	return p, nil
}

func ParsePortfolioYAML(raw []byte) (Portfolio, error) {
	var p Portfolio
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Portfolio{}, domain.WrapError(domain.ErrInvalidArgument, "parse portfolio config", err)
	}
	for i, c := range p.Categories {
		if err := validateCategory(c); err != nil {
			return Portfolio{}, domain.WrapError(domain.ErrInvalidArgument, "parse portfolio config", fmt.Errorf("category %d: %w", i, err))
		}
		p.Categories[i] = domain.Category{Name: strings.TrimSpace(c.Name), Glob: strings.TrimSpace(c.Glob)}
	}
	return p, nil
}

// ParseCategories reads "Name=glob,Name=glob" keeping the given order.
func ParseCategories(list string) ([]domain.Category, error) {
	categories := make([]domain.Category, 0)
	for _, item := range parseList(list) {
		name, glob, ok := strings.Cut(item, "=")
		if !ok {
			return nil, domain.WrapError(domain.ErrInvalidArgument, "parse categories", fmt.Errorf("entry %q is not Name=glob", item))
		}
		c := domain.Category{Name: strings.TrimSpace(name), Glob: strings.TrimSpace(glob)}
		if err := validateCategory(c); err != nil {
			return nil, domain.WrapError(domain.ErrInvalidArgument, "parse categories", err)
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func validateCategory(c domain.Category) error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("category name is empty")
	}
	if strings.TrimSpace(c.Glob) == "" {
		return fmt.Errorf("category %q has empty glob", c.Name)
	}
	return nil
}

func parseList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
