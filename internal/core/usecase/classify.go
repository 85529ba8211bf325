package usecase

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/kirillkom/portfolio-feed/internal/core/domain"
)

var cameraStemPattern = regexp.MustCompile(`^IMG[_-]([0-9]*)`)

// Classifier turns raw assets into project records.
type Classifier struct {
	gazetteer []string
}

func NewClassifier(gazetteer []string) (*Classifier, error) {
	if len(gazetteer) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidArgument, "new classifier", errors.New("gazetteer is empty"))
	}
	return &Classifier{gazetteer: append([]string(nil), gazetteer...)}, nil
}

var defaultClassifier = &Classifier{gazetteer: domain.DefaultGazetteer}

// Classify classifies assets against the default gazetteer.
func Classify(assets []domain.Asset, category string) ([]domain.ProjectRecord, error) {
	return defaultClassifier.Classify(assets, category)
}

// Classify returns one record per asset in input order. Fallback numbering for
// camera-named files without digits is scoped to this call.
func (c *Classifier) Classify(assets []domain.Asset, category string) ([]domain.ProjectRecord, error) {
	records := make([]domain.ProjectRecord, 0, len(assets))
	for i, asset := range assets {
		if asset.SourceID == "" {
			return nil, domain.WrapError(
				domain.ErrInvalidArgument,
				"classify",
				fmt.Errorf("asset %d in category %q has empty source id", i, category),
			)
		}
		location, err := AssignLocation(LocationKey(asset.SourceID, category), c.gazetteer)
		if err != nil {
			return nil, err
		}
		records = append(records, domain.ProjectRecord{
			SourceID: asset.SourceID,
			Title:    deriveTitle(asset.SourceID, category, i+1),
			Category: category,
			Location: location,
		})
	}
	return records, nil
}

func deriveTitle(sourceID, category string, position int) string {
	stem := fileStem(sourceID)
	if m := cameraStemPattern.FindStringSubmatch(stem); m != nil {
		number := m[1]
		if number == "" {
			number = fmt.Sprintf("%04d", position)
		}
		return category + " Project " + number
	}
	return titleCase(strings.NewReplacer("_", " ", "-", " ").Replace(stem))
}

func fileStem(sourceID string) string {
	base := sourceID
	if idx := strings.LastIndexAny(base, `/\`); idx >= 0 {
		base = base[idx+1:]
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// titleCase upper-cases the first rune of every whitespace-delimited word and
// leaves the spacing as it is.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	atWordStart := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			atWordStart = true
			b.WriteRune(r)
			continue
		}
		if atWordStart {
			r = unicode.ToUpper(r)
			atWordStart = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
