package models

import "math/rand"

// ColorPalette is the fixed set of colors a hashtag can be assigned for
// rendering on the dashboard charts.
var ColorPalette = []string{
	"#3b465e", "#2e3951", "#1c2a48", "#1c2331", "#e53935", "#d32f2f", "#c62828", "#b71c1c",
	"#d81b60", "#c2185b", "#ad1457", "#880e4f", "#8e24aa", "#7b1fa2", "#6a1b9a", "#4a148c",
	"#5e35b1", "#512da8", "#4527a0", "#311b92", "#3949ab", "#303f9f", "#283593", "#1a237e",
	"#1e88e5", "#1976d2", "#1565c0", "#0d47a1", "#039be5", "#0288d1", "#0277bd", "#01579b",
	"#00acc1", "#0097a7", "#00838f", "#006064", "#00897b", "#00796b", "#00695c", "#004d40",
	"#43a047", "#388e3c", "#2e7d32", "#1b5e20", "#7cb342", "#689f38", "#558b2f", "#33691e",
	"#c0ca33", "#afb42b", "#9e9d24", "#827717", "#fdd835", "#fbc02d", "#f9a825", "#f57f17",
	"#ffb300", "#ffa000", "#ff8f00", "#ff6f00", "#fb8c00", "#f57c00", "#ef6c00", "#e65100",
	"#f4511e", "#e64a19", "#d84315", "#bf360c", "#6d4c41", "#5d4037", "#4e342e", "#3e2723",
	"#546e7a", "#455a64", "#37474f", "#263238", "#757575", "#616161", "#424242", "#212121",
}

func RandomColor() string {
	return ColorPalette[rand.Intn(len(ColorPalette))]
}

// Hashtag is a tracked topic tag. The case-preserving name is the primary
// key; uniqueness across the store is case-insensitive and enforced by the
// validation layer.
type Hashtag struct {
	Name  string `json:"name" gorm:"primaryKey;size:500"`
	Color string `json:"color" gorm:"size:50;not null"`

	Posts []Post `json:"posts,omitempty" gorm:"many2many:post_hashtags;joinForeignKey:HashtagName;joinReferences:PostID"`
}
