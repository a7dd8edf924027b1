package gesture

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/detector"
)

func TestLayout(t *testing.T) {
	entries := Layout(640, 480, DefaultOptions(), DefaultMenuStyle())

	want := []MenuEntry{
		{Option: 1, Text: "1. Light Intensity", Origin: image.Pt(50, 150), Box: image.Rect(50, 120, 350, 160)},
		{Option: 2, Text: "2. TV Volume", Origin: image.Pt(50, 200), Box: image.Rect(50, 170, 230, 210)},
		{Option: 3, Text: "3. AC Temperature", Origin: image.Pt(50, 250), Box: image.Rect(50, 220, 330, 260)},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("Layout() mismatch (-want +got):\n%s", diff)
	}
}

func TestLayout_FollowsOptionOrderAndNames(t *testing.T) {
	options := []Option{
		{ID: 7, Name: "Fan"},
		{ID: 2, Name: "Very Long Option Name"},
	}
	entries := Layout(640, 480, options, DefaultMenuStyle())

	require.Len(t, entries, 2)
	assert.Equal(t, OptionID(7), entries[0].Option)
	assert.Equal(t, image.Rect(50, 120, 110, 160), entries[0].Box)
	assert.Equal(t, OptionID(2), entries[1].Option)
	assert.Equal(t, 50+21*20, entries[1].Box.Max.X)
}

func TestLayout_ClipsToFrame(t *testing.T) {
	entries := Layout(200, 180, DefaultOptions(), DefaultMenuStyle())

	require.Len(t, entries, 3)
	assert.Equal(t, image.Rect(50, 120, 200, 160), entries[0].Box)
	assert.Equal(t, image.Rect(50, 170, 200, 180), entries[1].Box)
	assert.True(t, entries[2].Box.Empty(), "entry below the frame has no hit area")
	assert.False(t, entries[2].Contains(100, 230))
}

func TestMenuEntry_ContainsIsStrict(t *testing.T) {
	e := MenuEntry{Box: image.Rect(50, 170, 230, 210)}

	assert.True(t, e.Contains(100, 190))
	assert.True(t, e.Contains(50.5, 170.5))
	assert.False(t, e.Contains(50, 190), "left edge")
	assert.False(t, e.Contains(230, 190), "right edge")
	assert.False(t, e.Contains(100, 170), "top edge")
	assert.False(t, e.Contains(100, 210), "bottom edge")
}

func TestHitTest(t *testing.T) {
	entries := Layout(640, 480, DefaultOptions(), DefaultMenuStyle())

	tests := []struct {
		name string
		x, y float64 // pixels
		want OptionID
	}{
		{name: "entry 1", x: 200, y: 140, want: 1},
		{name: "entry 2", x: 100, y: 190, want: 2},
		{name: "entry 3", x: 300, y: 240, want: 3},
		{name: "right of short entry 2", x: 300, y: 190, want: NoOption},
		{name: "gap between entries", x: 100, y: 165, want: NoOption},
		{name: "far corner", x: 600, y: 450, want: NoOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hand := detector.PointingLandmarks(tt.x/640, tt.y/480)
			assert.Equal(t, tt.want, HitTest(entries, &hand, 640, 480))
		})
	}
}
