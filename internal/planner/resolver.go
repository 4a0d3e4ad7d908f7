package planner

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/plantworks/backend/internal/models"
)

// ResolvedResources is the joined result of the two resolver queries.
type ResolvedResources struct {
	Technicians []models.Technician
	Parts       []models.Part
}

// resolve fetches available technicians and required parts concurrently and
// joins the results. Technicians come back ranked; an empty part-number list
// never reaches the store.
func (p *Planner) resolve(ctx context.Context, requiredSkills, partNumbers []string) (ResolvedResources, error) {
	var res ResolvedResources

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if len(requiredSkills) == 0 {
			res.Technicians = []models.Technician{}
			return nil
		}
		techs, err := p.Store.ListTechniciansByStatus(gctx, models.TechAvailable)
		if err != nil {
			return err
		}
		res.Technicians = RankTechnicians(techs, requiredSkills)
		return nil
	})

	g.Go(func() error {
		if len(partNumbers) == 0 {
			res.Parts = []models.Part{}
			return nil
		}
		parts, err := p.Store.ListPartsByNumbers(gctx, partNumbers)
		if err != nil {
			return err
		}
		res.Parts = parts
		return nil
	})

	if err := g.Wait(); err != nil {
		return ResolvedResources{}, err
	}

	if missing := missingPartNumbers(partNumbers, res.Parts); len(missing) > 0 {
		p.Logger.Debug().Strs("part_numbers", missing).Msg("required parts not in inventory")
	}
	return res, nil
}

// RankTechnicians filters to technicians holding at least one required skill
// and orders them by matching-skill count, then years of experience, both
// descending. The sort is stable so ties keep fetch order.
func RankTechnicians(techs []models.Technician, requiredSkills []string) []models.Technician {
	if len(requiredSkills) == 0 {
		return []models.Technician{}
	}

	type scored struct {
		tech    models.Technician
		matches int
	}
	candidates := make([]scored, 0, len(techs))
	for _, t := range techs {
		n := matchingSkillCount(t.Skills, requiredSkills)
		if n == 0 {
			continue
		}
		candidates = append(candidates, scored{tech: t, matches: n})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].matches != candidates[j].matches {
			return candidates[i].matches > candidates[j].matches
		}
		return candidates[i].tech.YearsExperience > candidates[j].tech.YearsExperience
	})

	out := make([]models.Technician, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.tech)
	}
	return out
}

func matchingSkillCount(skills, required []string) int {
	n := 0
	for _, r := range required {
		if hasSkill(skills, r) {
			n++
		}
	}
	return n
}

func hasSkill(skills []string, target string) bool {
	for _, s := range skills {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(target)) {
			return true
		}
	}
	return false
}

func missingPartNumbers(requested []string, found []models.Part) []string {
	if len(requested) == 0 {
		return nil
	}
	have := make(map[string]struct{}, len(found))
	for _, p := range found {
		have[p.PartNumber] = struct{}{}
	}
	var missing []string
	for _, n := range requested {
		if _, ok := have[n]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}
