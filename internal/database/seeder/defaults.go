package seeder

// Defaults lists every seeder in dependency order: jobs reference both the
// skill catalog and the seed source.
func Defaults() []Seeder {
	return []Seeder{
		SkillsSeeder{},
		JobSourcesSeeder{},
		JobsSeeder{},
	}
}
