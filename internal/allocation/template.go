package allocation

import (
	"context"
	"math"
	"sort"
	"strings"

	"hspanel/internal/errors"
	"hspanel/pkg/contracts/domain"
)

// BuildTemplate collapses crosswalk edges to the 4-digit product level and
// renormalizes the weights into allocation shares. This happens exactly once
// per run; every year then reads the same template.
//
// Edges sharing a (product, industry) pair accumulate before renormalizing,
// so a product whose 6-digit children point at the same industry ends up
// with one entry carrying their combined weight. Products whose raw weights
// sum to zero cannot yield shares and are dropped from the template.
func (a *Allocator) BuildTemplate(ctx context.Context, edges []domain.CrosswalkEdge) (domain.AllocationTemplate, error) {
	weights := make(map[string]map[string]float64)
	for _, edge := range edges {
		fine := strings.TrimSpace(edge.FineCode)
		industry := strings.TrimSpace(edge.CoarseCode)
		if fine == "" || industry == "" {
			continue
		}

		product := domain.Product4(fine)
		if weights[product] == nil {
			weights[product] = make(map[string]float64)
		}
		weights[product][industry] += edge.Weight
	}

	template := make(domain.AllocationTemplate, len(weights))
	dropped := 0
	for product, industryWeights := range weights {
		industries := make([]string, 0, len(industryWeights))
		for industry := range industryWeights {
			industries = append(industries, industry)
		}
		sort.Strings(industries)

		// Sum in sorted industry order for reproducible totals
		total := 0.0
		for _, industry := range industries {
			total += industryWeights[industry]
		}
		if total <= 0 {
			dropped++
			continue
		}

		entries := make([]domain.TemplateEntry, 0, len(industries))
		shareSum := 0.0
		for _, industry := range industries {
			share := industryWeights[industry] / total
			shareSum += share
			entries = append(entries, domain.TemplateEntry{
				Industry4: industry,
				Share4:    share,
			})
		}

		if math.Abs(shareSum-1) > a.shareTolerance {
			return nil, errors.NewAppValidationError("renormalized shares do not sum to one").
				WithContext("product", product).
				WithContext("share_sum", shareSum)
		}

		template[product] = entries
	}

	a.logger.InfoContext(ctx, "built allocation template",
		"edges", len(edges),
		"products", len(template),
		"dropped_zero_weight", dropped,
	)

	return template, nil
}
