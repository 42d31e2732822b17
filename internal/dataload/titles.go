package dataload

import (
	"context"
	"strings"

	"hspanel/internal/config"
	"hspanel/pkg/contracts/domain"
)

// Known header variants for the industry title table. This table has the
// worst header drift of the four inputs; the title column in particular has
// shipped under several names.
var (
	titlesCodeVariants  = []string{"industry", "industry4", "industry_code", "code", "naics", "naics4", "sic"}
	titlesTitleVariants = []string{"title", "industry_title", "description", "label", "industry_name", "name"}
)

// LoadTitles reads the industry-code→title reference table from a CSV or
// XLSX file into a map. The table may be incomplete; industries without a
// title surface later as coverage audit rows, not load failures. Duplicate
// codes keep their first title.
func (l *Loader) LoadTitles(ctx context.Context, path string) (map[string]string, error) {
	rows, err := l.readTable("industry_titles", path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		// An empty title table means every industry is untitled, which the
		// audits already report. Not fatal.
		l.logger.WarnContext(ctx, "Industry title table is empty", "path", path)
		return map[string]string{}, nil
	}

	header := rows[0]
	codeIdx, err := resolveColumn("industry_titles", "industry code", header, titlesCodeVariants)
	if err != nil {
		return nil, err
	}
	titleIdx, err := resolveColumn("industry_titles", "title", header, titlesTitleVariants)
	if err != nil {
		return nil, err
	}

	titles := make(map[string]string)
	for _, row := range rows[1:] {
		code := domain.NormalizeCode(cell(row, codeIdx), config.CoarseCodeWidth)
		if code == "" {
			continue
		}
		if _, ok := titles[code]; ok {
			continue
		}
		titles[code] = strings.TrimSpace(cell(row, titleIdx))
	}

	l.logger.InfoContext(ctx, "Loaded industry titles",
		"path", path,
		"titles", len(titles))

	return titles, nil
}
