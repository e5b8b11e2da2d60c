package period

import "testing"

func TestCellAt(t *testing.T) {
	g := ForZoom(ZoomMonth)
	days := DaysInMonth(2025, 3)

	tests := []struct {
		name     string
		x, y     int
		wantLine int
		wantDay  int
		wantOK   bool
	}{
		{"first cell", g.LabelWidth, g.HeaderHeight, 0, 1, true},
		{"third line day five", g.LabelWidth + 2*g.LineWidth + 5, g.HeaderHeight + 4*g.DayHeight + 1, 2, 5, true},
		{"label column", g.LabelWidth - 1, g.HeaderHeight, 0, 0, false},
		{"header row", g.LabelWidth, g.HeaderHeight - 1, 0, 0, false},
		{"past last line", g.LabelWidth + 3*g.LineWidth, g.HeaderHeight, 0, 0, false},
		{"past last day", g.LabelWidth, g.HeaderHeight + 31*g.DayHeight, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, day, ok := g.CellAt(tt.x, tt.y, days, 3)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (line != tt.wantLine || day != tt.wantDay) {
				t.Errorf("got (%d, %d), want (%d, %d)", line, day, tt.wantLine, tt.wantDay)
			}
		})
	}
}

func TestCellAtWeekSkipsEmptySlots(t *testing.T) {
	g := ForZoom(ZoomWeek)
	days := DaysInWeek(2025, 3, 1) // [0 0 0 0 0 1 2]

	if _, _, ok := g.CellAt(g.LabelWidth, g.HeaderHeight, days, 1); ok {
		t.Error("expected empty slot to be outside the grid")
	}
	_, day, ok := g.CellAt(g.LabelWidth, g.HeaderHeight+5*g.DayHeight, days, 1)
	if !ok || day != 1 {
		t.Errorf("got day %d ok %v, want day 1", day, ok)
	}
}

func TestDayDelta(t *testing.T) {
	g := ForZoom(ZoomMonth) // 48px rows
	tests := []struct {
		dy   int
		want int
	}{
		{0, 0},
		{23, 0},
		{24, 1},
		{96, 2},
		{-24, 0},
		{-25, -1},
		{-48, -1},
	}
	for _, tt := range tests {
		if got := g.DayDelta(tt.dy); got != tt.want {
			t.Errorf("DayDelta(%d) = %d, want %d", tt.dy, got, tt.want)
		}
	}
}

func TestBeyondThreshold(t *testing.T) {
	g := ForZoom(ZoomMonth)
	if g.BeyondThreshold(g.DragThreshold, -g.DragThreshold) {
		t.Error("movement equal to the threshold should stay a click")
	}
	if !g.BeyondThreshold(0, g.DragThreshold+1) {
		t.Error("movement past the threshold should start a drag")
	}
}

func TestBlockBox(t *testing.T) {
	g := ForZoom(ZoomMonth)
	days := DaysInMonth(2025, 3)

	box, ok := g.BlockBox(3, 5, 1, days)
	if !ok {
		t.Fatal("expected visible box")
	}
	if box.X != g.LabelWidth+g.LineWidth+g.Margin {
		t.Errorf("X = %d", box.X)
	}
	if box.Y != g.HeaderHeight+2*g.DayHeight+g.Margin {
		t.Errorf("Y = %d", box.Y)
	}
	if box.Height != 3*g.DayHeight-2*g.Margin {
		t.Errorf("Height = %d", box.Height)
	}

	week := DaysInWeek(2025, 3, 2) // 3..9
	if _, ok := g.BlockBox(20, 21, 0, week); ok {
		t.Error("expected block outside the week to be hidden")
	}
	clipped, ok := g.BlockBox(1, 4, 0, week)
	if !ok || clipped.Height != 2*g.DayHeight-2*g.Margin {
		t.Errorf("clipped box = %+v, ok %v", clipped, ok)
	}
}

func TestEdgeAt(t *testing.T) {
	g := ForZoom(ZoomMonth)
	box := Box{X: 0, Y: 100, Width: 100, Height: 92}

	tests := []struct {
		y    int
		want Edge
	}{
		{99, EdgeNone},
		{100, EdgeTop},
		{105, EdgeTop},
		{106, EdgeNone},
		{185, EdgeNone},
		{186, EdgeBottom},
		{191, EdgeBottom},
		{192, EdgeNone},
	}
	for _, tt := range tests {
		if got := g.EdgeAt(box, tt.y); got != tt.want {
			t.Errorf("EdgeAt(y=%d) = %d, want %d", tt.y, got, tt.want)
		}
	}

	g.Handle = 0
	if got := g.EdgeAt(box, 100); got != EdgeNone {
		t.Errorf("no handles: got %d", got)
	}
}
