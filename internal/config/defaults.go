package config

const (
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultGeocoderBaseURL      = "https://nominatim.openstreetmap.org"
	defaultGeocoderUserAgent    = "mediakit/dev"
	defaultGeocoderTimeout      = 10
	defaultProxyWindowMinutes   = 60
	defaultMinSimilarity        = 0.7
	defaultCandidateScore       = 70
	defaultAcceptScore          = 80
	defaultJournalEnabled       = true
	defaultLogDirName           = "logs"
	defaultGeocoderURLEnv       = "MEDIAKIT_GEOCODER_URL"
	defaultGeocoderUserAgentEnv = "MEDIAKIT_GEOCODER_USER_AGENT"
)

var (
	defaultImageExtensions = []string{".jpg", ".jpeg", ".png", ".heic", ".tiff"}
	defaultVideoExtensions = []string{".mov", ".mp4", ".avi", ".mkv"}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			FFprobe:  "ffprobe",
			FFmpeg:   "ffmpeg",
			ExifTool: "exiftool",
		},
		Geocoder: Geocoder{
			BaseURL:        defaultGeocoderBaseURL,
			UserAgent:      defaultGeocoderUserAgent,
			TimeoutSeconds: defaultGeocoderTimeout,
		},
		GPS: GPS{
			ProxyWindowMinutes: defaultProxyWindowMinutes,
			ImageExtensions:    append([]string(nil), defaultImageExtensions...),
			VideoExtensions:    append([]string(nil), defaultVideoExtensions...),
		},
		Matching: Matching{
			MinSimilarity:  defaultMinSimilarity,
			CandidateScore: defaultCandidateScore,
			AcceptScore:    defaultAcceptScore,
		},
		SpeakerTest: SpeakerTest{
			Groups: DefaultSpeakerGroups(),
		},
		Journal: Journal{
			Enabled: defaultJournalEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// DefaultSpeakerGroups returns the built-in reference songs grouped by what
// each category exercises on a speaker.
func DefaultSpeakerGroups() []SpeakerGroup {
	return []SpeakerGroup{
		{
			Name: "To Test Overall Balance",
			Songs: []Song{
				{Artist: "Billie Eilish", Title: "Bad Guy"},
				{Artist: "Lorde", Title: "Royals"},
				{Artist: "The White Stripes", Title: "Seven Nation Army"},
				{Artist: "Childish Gambino", Title: "Redbone"},
			},
		},
		{
			Name: "To Test Bass Response",
			Songs: []Song{
				{Artist: "Stevie Wonder", Title: "Superstition"},
				{Artist: "Mark Ronson ft. Bruno Mars", Title: "Uptown Funk"},
				{Artist: "Michael Jackson", Title: "Billie Jean"},
				{Artist: "Kendrick Lamar", Title: "HUMBLE."},
			},
		},
		{
			Name: "To Test Vocal Clarity",
			Songs: []Song{
				{Artist: "Adele", Title: "Someone Like You"},
				{Artist: "Jeff Buckley", Title: "Hallelujah"},
				{Artist: "Fleetwood Mac", Title: "Landslide"},
				{Artist: "Sam Smith", Title: "Stay With Me"},
			},
		},
		{
			Name: "To Test Dynamic Range",
			Songs: []Song{
				{Artist: "Queen", Title: "Bohemian Rhapsody"},
				{Artist: "Dave Brubeck Quartet", Title: "Take Five"},
				{Artist: "Led Zeppelin", Title: "Stairway to Heaven"},
				{Artist: "Leonard Cohen", Title: "Bird on a Wire"},
			},
		},
		{
			Name: "To Test Stereo Imaging",
			Songs: []Song{
				{Artist: "Pink Floyd", Title: "Money"},
				{Artist: "Eagles", Title: "Hotel California"},
				{Artist: "Guns N' Roses", Title: "Sweet Child O' Mine"},
				{Artist: "Yosi Horikawa", Title: "Bubbles"},
			},
		},
	}
}
