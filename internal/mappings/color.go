package mappings

// playerColors indexes lobby color slots to their in-game hex values.
var playerColors = []string{
	"#ff0303", // red
	"#0042ff", // blue
	"#1ce6b9", // teal
	"#540081", // purple
	"#fffc00", // yellow
	"#fe8a0e", // orange
	"#20c000", // green
	"#e55bb0", // pink
	"#959697", // gray
	"#7ebff1", // light blue
	"#106246", // dark green
	"#4a2a04", // brown
	"#9b0000", // maroon
	"#0000c3", // navy
	"#00eaff", // turquoise
	"#be00fe", // violet
	"#ebcd87", // wheat
	"#f8a48b", // peach
	"#bfff80", // mint
	"#dcb9eb", // lavender
	"#282828", // coal
	"#ebf0ff", // snow
	"#00781e", // emerald
	"#a46f33", // peanut
}

// PlayerColor converts a lobby color slot to its hex display value.
// Unknown slots map to black, "#000000".
func PlayerColor(slot int) string {
	if slot < 0 || slot >= len(playerColors) {
		return "#000000"
	}
	return playerColors[slot]
}
