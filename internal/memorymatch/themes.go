package memorymatch

type Theme string

const (
	Animals Theme = "animals"
	Fruits  Theme = "fruits"
	Space   Theme = "space"
)

var themes = map[Theme][]string{
	Animals: {
		"🐶", "🐱", "🐭", "🐹", "🐰", "🦊", "🐻", "🐼",
		"🐨", "🐯", "🦁", "🐮", "🐷", "🐸", "🐵", "🐔",
		"🐧", "🐦", "🐤", "🦆", "🦅", "🦉", "🦇", "🐺",
		"🐗", "🐴", "🦄", "🐝", "🐛", "🦋", "🐌", "🐞",
		"🐢", "🐍", "🦎", "🐙", "🦑", "🦀", "🐬", "🐳",
	},
	Fruits: {
		"🍎", "🍐", "🍊", "🍋", "🍌", "🍉", "🍇", "🍓",
		"🫐", "🍈", "🍒", "🍑", "🥭", "🍍", "🥥", "🥝",
		"🍅", "🍆", "🥑", "🥦", "🥬", "🥒", "🌶", "🫑",
		"🌽", "🥕", "🫒", "🧄", "🧅", "🥔", "🍠", "🥐",
		"🥯", "🍞", "🥖", "🥨", "🧀", "🥚",
	},
	Space: {
		"🚀", "🛸", "🛰", "🌍", "🌎", "🌏", "🌕", "🌖",
		"🌗", "🌘", "🌑", "🌒", "🌓", "🌔", "🌙", "🌚",
		"🌛", "🌜", "☀", "🌝", "🌞", "⭐", "🌟", "💫",
		"✨", "☄", "🪐", "🌌", "🔭", "👽", "👾", "🌠",
		"🧑‍🚀", "🌡", "🌀", "🌋",
	},
}

// Themes - names of the available card palettes.
func Themes() []Theme {
	return []Theme{Animals, Fruits, Space}
}
