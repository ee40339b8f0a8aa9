package topics

// Config describes the region -> subregion -> topic search space to iterate.
// It is read-only input, loaded fresh at the start of every fetch cycle.
type Config struct {
	Regions map[string]Region `yaml:"regions"`
}

type Region struct {
	Name       string   `yaml:"name"`
	Subregions []string `yaml:"subregions"`
	Topics     []string `yaml:"topics"`
}
