package timetable

// Config holds configuration for the timetable synchronization feature.
type Config struct {
	// FeedURL is the upstream XML schedule feed endpoint.
	FeedURL string `mapstructure:"feed_url" default:"https://degra.wi.pb.edu.pl/rozklady/webservices.php"`
	// IntervalMinutes is the period between synchronization cycles.
	IntervalMinutes int `mapstructure:"interval_minutes" default:"10"`
	// ArchiveFeeds stores every raw feed document to object storage when
	// storage is enabled.
	ArchiveFeeds bool `mapstructure:"archive_feeds" default:"false"`
	// FCMEnabled turns on push notification dispatch for new updates.
	FCMEnabled bool `mapstructure:"fcm_enabled" default:"false"`
	// FCMKeyFile is the path to the encrypted FCM server key file.
	FCMKeyFile string `mapstructure:"fcm_key_file" default:"fcm.key.enc"`
	// FCMSecret is the secret the key file is encrypted with.
	FCMSecret string `mapstructure:"fcm_secret" default:""`
	// FCMTopic is the topic new updates are published to.
	FCMTopic string `mapstructure:"fcm_topic" default:"updates"`
}
