package config

// Default paths and limits
const (
	// DefaultDatabasePath is the default path for the reader database
	DefaultDatabasePath = "./reader-data.db"

	// DefaultBooksDir is where compiled book folders are expected
	DefaultBooksDir = "./books"

	// DefaultBookCacheSize bounds how many parsed books stay in memory.
	// Books carry rendered chapter HTML, so each entry can be large.
	DefaultBookCacheSize = 10
)
