package recommend

type Vector []float64

// Vectorize maps a skill set onto the universe as a {0,1} presence vector.
// Skills outside the universe are ignored.
func Vectorize(set SkillSet, u Universe) Vector {
	vec := make(Vector, u.Size())
	for id := range set {
		pos, ok := u.Position(id)
		if !ok {
			continue
		}
		vec[pos] = 1
	}
	return vec
}
