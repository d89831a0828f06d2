package simplify

// DefaultTolerance is the absolute tolerance used to decide whether a literal
// equals 0 or 1.
const DefaultTolerance = 1e-7

// DefaultMaxPasses bounds Fixpoint.
const DefaultMaxPasses = 8

// config holds simplification settings.
type config struct {
	tolerance float64
	maxPasses int
	report    *Report
}

func defaultConfig() config {
	return config{
		tolerance: DefaultTolerance,
		maxPasses: DefaultMaxPasses,
	}
}

// Option configures Simplify and Fixpoint.
type Option func(*config)

// WithTolerance sets the absolute tolerance for literal comparison.
// Default: 1e-7
//
// A literal v matches k when |v-k| < tol. Non-positive values are ignored.
func WithTolerance(tol float64) Option {
	return func(c *config) {
		if tol > 0 {
			c.tolerance = tol
		}
	}
}

// WithMaxPasses caps the number of passes Fixpoint runs.
// Default: 8
func WithMaxPasses(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxPasses = n
		}
	}
}

// WithReport accumulates counters into r. Counters are added to, not reset.
//
// Example:
//
//	var rep simplify.Report
//	_, err := simplify.Simplify(t, t.Root(), simplify.WithReport(&rep))
//	fmt.Println(rep.Folds, rep.Freed)
func WithReport(r *Report) Option {
	return func(c *config) {
		c.report = r
	}
}
