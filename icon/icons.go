package icon

// Icon identifies one UI symbol in the global registry.
type Icon int

const (
	Lua Icon = iota
	Progress
	Search
	Success
	Fail
	Lightning
	Play
	Question
)

// icons is the global registry mapping each symbol to its per-variant renderings.
var icons = map[Icon]*iconDef{
	Lua: {
		emoji:   "🌙",
		nerd:    "",
		plain:   "lua",
		kaomoji: "(=^･ω･^=)",
		squares: "🟦",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "...",
		kaomoji: "(￣ω￣;)",
		squares: "🟨",
	},
	Search: {
		emoji:   "🔍",
		nerd:    "",
		plain:   "?",
		kaomoji: "(・・ ) ?",
		squares: "🟪",
	},
	Success: {
		emoji:   "✅",
		nerd:    "",
		plain:   "+",
		kaomoji: "(￣▽￣)b",
		squares: "🟩",
	},
	Fail: {
		emoji:   "❌",
		nerd:    "",
		plain:   "x",
		kaomoji: "(╯°□°）╯",
		squares: "🟥",
	},
	Lightning: {
		emoji:   "⚡",
		nerd:    "",
		plain:   "*",
		kaomoji: "(ﾉ>ω<)ﾉ",
		squares: "🟧",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "",
		plain:   ">",
		kaomoji: "ᕕ( ᐛ )ᕗ",
		squares: "⬜",
	},
	Question: {
		emoji:   "❓",
		nerd:    "",
		plain:   "?",
		kaomoji: "(･o･;)",
		squares: "🟫",
	},
}
