package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayWindowUsesLocalDayBoundaries(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	parisWindow, err := DayWindow("2024-01-05", "2024-01-05", paris)
	require.NoError(t, err)
	nyWindow, err := DayWindow("2024-01-05", "2024-01-05", newYork)
	require.NoError(t, err)

	// Same calendar day, different instants: the whole point of carrying
	// the timezone into the window.
	assert.False(t, parisWindow.From.Equal(nyWindow.From))

	// 23:30 Paris on Jan 5 is inside the Paris window but already Jan 5
	// evening in New York terms too; 23:30 New York is Jan 6 in Paris.
	lateParis := time.Date(2024, 1, 5, 23, 30, 0, 0, paris)
	assert.True(t, parisWindow.Contains(lateParis))
	lateNY := time.Date(2024, 1, 5, 23, 30, 0, 0, newYork)
	assert.False(t, parisWindow.Contains(lateNY))
	assert.True(t, nyWindow.Contains(lateNY))
}

func TestMondayFloor(t *testing.T) {
	paris, _ := time.LoadLocation("Europe/Paris")

	// 2024-01-05 is a Friday.
	friday := time.Date(2024, 1, 5, 15, 0, 0, 0, paris)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, paris), MondayFloor(friday, paris))

	// Sunday still belongs to the week started the previous Monday.
	sunday := time.Date(2024, 1, 7, 23, 59, 0, 0, paris)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, paris), MondayFloor(sunday, paris))

	// A Monday floors to itself.
	monday := time.Date(2024, 1, 8, 0, 0, 0, 0, paris)
	assert.Equal(t, monday, MondayFloor(monday, paris))
}

func TestWeeksJanuaryScenario(t *testing.T) {
	paris, _ := time.LoadLocation("Europe/Paris")
	window, err := DayWindow("2024-01-01", "2024-01-20", paris)
	require.NoError(t, err)

	weeks := window.Weeks()
	require.Len(t, weeks, 3)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, paris), weeks[0].Start)
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, paris), weeks[1].Start)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, paris), weeks[2].Start)

	// The last bucket frame runs to Monday Jan 22, but counting is clipped
	// to the requested window end (Jan 21 00:00, i.e. through Jan 20).
	assert.Equal(t, time.Date(2024, 1, 22, 0, 0, 0, 0, paris), weeks[2].End)
	assert.Equal(t, time.Date(2024, 1, 21, 0, 0, 0, 0, paris), weeks[2].Counting.To)
}

func TestWeeksAreContiguousAndGapless(t *testing.T) {
	paris, _ := time.LoadLocation("Europe/Paris")
	window, err := DayWindow("2024-02-14", "2024-05-03", paris)
	require.NoError(t, err)

	weeks := window.Weeks()
	require.NotEmpty(t, weeks)

	assert.False(t, weeks[0].Start.After(window.From))
	assert.False(t, weeks[len(weeks)-1].End.Before(window.To))
	for i := 1; i < len(weeks); i++ {
		assert.Equal(t, weeks[i-1].End, weeks[i].Start, "bucket %d must start where %d ends", i, i-1)
		assert.Equal(t, time.Monday, weeks[i].Start.Weekday())
	}
}

func TestWeeksAcrossDSTTransition(t *testing.T) {
	paris, _ := time.LoadLocation("Europe/Paris")
	// Paris switches to summer time on 2024-03-31.
	window, err := DayWindow("2024-03-25", "2024-04-07", paris)
	require.NoError(t, err)

	weeks := window.Weeks()
	require.Len(t, weeks, 2)
	for _, w := range weeks {
		assert.Equal(t, time.Monday, w.Start.Weekday())
		assert.Equal(t, 0, w.Start.Hour())
		assert.Equal(t, 0, w.End.Hour())
	}
}

func TestIntersect(t *testing.T) {
	paris, _ := time.LoadLocation("Europe/Paris")
	a, _ := DayWindow("2024-01-01", "2024-01-10", paris)
	b, _ := DayWindow("2024-01-08", "2024-01-20", paris)
	c, _ := DayWindow("2024-02-01", "2024-02-05", paris)

	inter, ok := a.Intersect(b)
	require.True(t, ok)
	assert.Equal(t, b.From, inter.From)
	assert.Equal(t, a.To, inter.To)

	_, ok = a.Intersect(c)
	assert.False(t, ok)

	// Unbounded windows give way to the bounded side.
	inter, ok = (TimeWindow{}).Intersect(a)
	require.True(t, ok)
	assert.Equal(t, a, inter)
}
