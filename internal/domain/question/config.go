package question

// Config holds runtime knobs for the question service.
type Config struct {
	// Dimensions is the embedding width D. Stored vectors always have
	// exactly D components.
	Dimensions int
	// DefaultSearchLimit applies when a search request omits the limit.
	DefaultSearchLimit int
	// MaxSearchLimit caps caller-supplied limits.
	MaxSearchLimit int
	// TrendingSize is how many popular queries Trending returns.
	TrendingSize int
}
