package homepage

// DefaultFeatures returns the sportsdataverse-py feature list in display order.
func DefaultFeatures() []FeatureRecord {
	return []FeatureRecord{
		{
			Title: "College Football",
			Description: "It provides users with the capability to access the ESPN API’s " +
				"college football game play-by-plays, box scores, and schedules to analyze the data for themselves.",
		},
		{
			Title: "EPA and WPA",
			Description: "It provides users with the capability to access the cfbfastR team's " +
				"expected points added and win probability metrics.",
		},
		{
			Title: "NFL",
			Description: "It provides users with the capability to access the nflfastR team's " +
				"game play-by-plays, box scores, and schedules to analyze the data for themselves.",
		},
	}
}
