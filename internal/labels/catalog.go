// Package labels описывает каталог меток для zero-shot классификации.
// Каталог — версионируемые данные конфигурации, неизменяемые после загрузки;
// смена набора меток требует пересчёта их эмбеддингов.
package labels

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Имена измерений каталога.
const (
	DimCategory = "category"
	DimColor    = "color"
	DimPattern  = "pattern"
	DimBrand    = "brand"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// Label — одна метка измерения: каноническое имя и текст-подсказка,
// эмбеддинг которой сравнивается с эмбеддингом изображения.
type Label struct {
	Name   string `yaml:"name"`
	Prompt string `yaml:"prompt"`
	// Broad — широкая категория для меток измерения category.
	Broad string `yaml:"broad,omitempty"`
}

// MentionBrand — бренд, распознаваемый по упоминаниям в текстах соседей.
type MentionBrand struct {
	// Keyword — ключ поиска в нижнем регистре ("louis vuitton").
	Keyword string `yaml:"keyword"`
	// Display — каноническое написание для ответа ("Louis Vuitton").
	Display string `yaml:"display"`
}

// Catalog — полный каталог меток всех измерений.
type Catalog struct {
	Version       string         `yaml:"version"`
	Categories    []Label        `yaml:"categories"`
	Colors        []Label        `yaml:"colors"`
	Patterns      []Label        `yaml:"patterns"`
	Brands        []Label        `yaml:"brands"`
	MentionBrands []MentionBrand `yaml:"mention_brands"`
}

// Load загружает каталог меток: из файла, если путь задан,
// иначе — встроенный каталог по умолчанию.
func Load(path string) (*Catalog, error) {
	data := defaultCatalogYAML
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read label catalog %s: %w", path, err)
		}
		data = fileData
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse label catalog: %w", err)
	}

	if err := catalog.validate(); err != nil {
		return nil, err
	}

	return &catalog, nil
}

// Dimension возвращает метки измерения по его имени.
func (c *Catalog) Dimension(dim string) []Label {
	switch dim {
	case DimCategory:
		return c.Categories
	case DimColor:
		return c.Colors
	case DimPattern:
		return c.Patterns
	case DimBrand:
		return c.Brands
	default:
		return nil
	}
}

// BroadCategory возвращает широкую категорию для специфичной метки категории.
func (c *Catalog) BroadCategory(specific string) string {
	for _, label := range c.Categories {
		if label.Name == specific {
			return label.Broad
		}
	}
	return ""
}

// CanonicalBrand возвращает каноническое написание бренда по ключу упоминания.
// Для неизвестного ключа возвращает Title-case исходной строки.
func (c *Catalog) CanonicalBrand(keyword string) string {
	lowered := strings.ToLower(strings.TrimSpace(keyword))
	for _, mb := range c.MentionBrands {
		if mb.Keyword == lowered {
			return mb.Display
		}
	}

	parts := strings.Fields(lowered)
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// CanonicalColor возвращает каноническое написание цвета из каталога.
// Для неизвестного цвета возвращает Title-case исходной строки.
func (c *Catalog) CanonicalColor(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == "" {
		return ""
	}
	for _, label := range c.Colors {
		if strings.ToLower(label.Name) == lowered {
			return label.Name
		}
	}

	parts := strings.Fields(lowered)
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

func (c *Catalog) validate() error {
	if c.Version == "" {
		return fmt.Errorf("label catalog: version is required")
	}

	for _, check := range []struct {
		dim    string
		labels []Label
	}{
		{DimCategory, c.Categories},
		{DimColor, c.Colors},
		{DimPattern, c.Patterns},
		{DimBrand, c.Brands},
	} {
		if len(check.labels) == 0 {
			return fmt.Errorf("label catalog: dimension %q has no labels", check.dim)
		}
		for _, label := range check.labels {
			if label.Prompt == "" {
				return fmt.Errorf("label catalog: empty prompt in dimension %q", check.dim)
			}
		}
	}

	if len(c.MentionBrands) == 0 {
		return fmt.Errorf("label catalog: mention_brands is empty")
	}

	return nil
}
