package domain

// SettingsID is the fixed key of the single settings row.
const SettingsID = "settings"

// DefaultLanguage is used when settings are created implicitly.
const DefaultLanguage = "en"

// Settings is the application-wide singleton. CurrentTripID may point at a
// deleted trip; readers treat that as "no current trip".
type Settings struct {
	ID            string  `json:"id"`
	Language      string  `json:"language"`
	CurrentTripID *string `json:"currentTripId,omitempty"`
}

type SettingsPatch struct {
	Language      *string          `json:"language,omitempty"`
	CurrentTripID Nullable[string] `json:"currentTripId"`
}

func (p SettingsPatch) Apply(s Settings) Settings {
	if p.Language != nil {
		s.Language = *p.Language
	}
	s.CurrentTripID = p.CurrentTripID.Merge(s.CurrentTripID)
	return s
}
