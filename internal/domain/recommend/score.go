package recommend

import "sync"

type Job struct {
	ID     int64
	Title  string
	Skills []Skill
}

func (j Job) Set() SkillSet {
	set := make(SkillSet, len(j.Skills))
	for _, s := range j.Skills {
		if s.ID <= 0 {
			continue
		}
		set[s.ID] = struct{}{}
	}
	return set
}

type JobScore struct {
	Job    Job
	Cosine float64
	LLR    float64
}

// ScoreAll computes the cosine and LLR score of every corpus job against the
// user's skill set. Jobs are fanned out across workers into indexed slots and
// collected behind a full barrier, so the result order always mirrors the
// corpus order regardless of worker count.
func ScoreAll(user SkillSet, corpus []Job, u Universe, freq FrequencyTable, workers int) []JobScore {
	scores := make([]JobScore, len(corpus))
	if len(corpus) == 0 {
		return scores
	}

	if workers <= 0 {
		workers = 1
	}
	if workers > len(corpus) {
		workers = len(corpus)
	}

	userVec := Vectorize(user, u)

	tasks := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				job := corpus[i]
				jobSet := job.Set()
				scores[i] = JobScore{
					Job:    job,
					Cosine: Cosine(userVec, Vectorize(jobSet, u)),
					LLR:    JobLLR(user, jobSet, freq),
				}
			}
		}()
	}

	for i := range corpus {
		tasks <- i
	}
	close(tasks)
	wg.Wait()

	return scores
}
