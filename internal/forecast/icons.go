package forecast

// DefaultIcon is shown for condition codes missing from the table.
const DefaultIcon = "🌤️"

// icons maps OpenWeatherMap icon codes to display glyphs.
var icons = map[string]string{
	"01d": "☀️", "01n": "🌙", // clear sky
	"02d": "⛅", "02n": "⛅", // few clouds
	"03d": "☁️", "03n": "☁️", // scattered clouds
	"04d": "☁️", "04n": "☁️", // broken clouds
	"09d": "🌧️", "09n": "🌧️", // shower rain
	"10d": "🌦️", "10n": "🌧️", // rain
	"11d": "⛈️", "11n": "⛈️", // thunderstorm
	"13d": "❄️", "13n": "❄️", // snow
	"50d": "🌫️", "50n": "🌫️", // mist
}

// Icon returns the glyph for an OpenWeatherMap condition code.
func Icon(code string) string {
	if icon, ok := icons[code]; ok {
		return icon
	}
	return DefaultIcon
}
