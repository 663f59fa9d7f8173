package recommend

import (
	"math"
	"sort"
)

type GapReport struct {
	Matching        []Skill
	Missing         []Skill
	Recommended     []Skill
	MatchPercentage float64
}

// AnalyzeGap compares the user's raw skill set against one job's required
// skills. Matching and missing always partition the job's skills, so their
// counts sum to the job's skill count even for skills a stale universe would
// not vectorize. Recommended skills come from the other top-ranked jobs and
// never repeat this job's missing list; without ranking context it stays
// empty.
func AnalyzeGap(user SkillSet, job Job, ranked []CombinedScore, topJobs, maxRecommended int) GapReport {
	matching := make([]Skill, 0, len(job.Skills))
	missing := make([]Skill, 0, len(job.Skills))
	seen := make(map[int64]struct{}, len(job.Skills))
	for _, s := range job.Skills {
		if s.ID <= 0 {
			continue
		}
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		if user.Has(s.ID) {
			matching = append(matching, s)
		} else {
			missing = append(missing, s)
		}
	}
	sortSkillsByName(matching)
	sortSkillsByName(missing)

	return GapReport{
		Matching:        matching,
		Missing:         missing,
		Recommended:     recommendFromNeighborhood(user, job, missing, ranked, topJobs, maxRecommended),
		MatchPercentage: matchPercentage(len(matching), len(matching)+len(missing)),
	}
}

func recommendFromNeighborhood(user SkillSet, job Job, missing []Skill, ranked []CombinedScore, topJobs, maxRecommended int) []Skill {
	recommended := make([]Skill, 0)
	if len(ranked) == 0 {
		return recommended
	}

	if topJobs <= 0 {
		topJobs = 5
	}

	excluded := make(map[int64]struct{}, len(missing))
	for _, s := range missing {
		excluded[s.ID] = struct{}{}
	}

	counts := make(map[int64]int)
	names := make(map[int64]string)
	taken := 0
	for _, rs := range ranked {
		if taken >= topJobs {
			break
		}
		if rs.Job.ID == job.ID {
			continue
		}
		taken++
		for id := range rs.Job.Set() {
			if user.Has(id) {
				continue
			}
			if _, skip := excluded[id]; skip {
				continue
			}
			counts[id]++
		}
		for _, s := range rs.Job.Skills {
			names[s.ID] = s.Name
		}
	}

	for id, c := range counts {
		if c > 0 {
			recommended = append(recommended, Skill{ID: id, Name: names[id]})
		}
	}
	sort.Slice(recommended, func(i, j int) bool {
		ci, cj := counts[recommended[i].ID], counts[recommended[j].ID]
		if ci != cj {
			return ci > cj
		}
		if recommended[i].Name != recommended[j].Name {
			return recommended[i].Name < recommended[j].Name
		}
		return recommended[i].ID < recommended[j].ID
	})

	if maxRecommended > 0 && len(recommended) > maxRecommended {
		recommended = recommended[:maxRecommended]
	}
	return recommended
}

func matchPercentage(matching, total int) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(matching) / float64(total) * 100
	return math.Round(pct*10) / 10
}

func sortSkillsByName(skills []Skill) {
	sort.Slice(skills, func(i, j int) bool {
		if skills[i].Name != skills[j].Name {
			return skills[i].Name < skills[j].Name
		}
		return skills[i].ID < skills[j].ID
	})
}
