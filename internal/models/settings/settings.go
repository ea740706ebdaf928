package settings

type Theme string

const ThemeLight Theme = "light"
const ThemeDark Theme = "dark"
const ThemeSystem Theme = "system"

func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

type Profile struct {
	Name   string `json:"name" yaml:"name"`
	Email  string `json:"email" yaml:"email"`
	Avatar string `json:"avatar,omitempty" yaml:"avatar"`
}

// ProfilePatch - частичное обновление профиля, nil поля не меняются
type ProfilePatch struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

type Settings struct {
	Theme                Theme   `json:"theme"`
	Profile              Profile `json:"profile"`
	NotificationsEnabled bool    `json:"notifications_enabled"`
	SoundEnabled         bool    `json:"sound_enabled"`
}

func Default(profile Profile) Settings {
	return Settings{
		Theme:                ThemeSystem,
		Profile:              profile,
		NotificationsEnabled: true,
		SoundEnabled:         true,
	}
}
