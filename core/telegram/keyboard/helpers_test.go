package keyboard

import "testing"

func TestInlineButtonsNPerRow(t *testing.T) {
	buttons := []InlineBtn{
		{Text: "a", Unique: "pick", Data: "1"},
		{Text: "b", Unique: "pick", Data: "2"},
		{Text: "c", Unique: "pick", Data: "3"},
		{Text: "d", Unique: "pick", Data: "4"},
		{Text: "e", Unique: "pick", Data: "5"},
	}

	markup := InlineButtonsNPerRow(buttons, 2)
	rows := markup.InlineKeyboard
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	widths := []int{2, 2, 1}
	for i, want := range widths {
		if len(rows[i]) != want {
			t.Fatalf("row %d has %d buttons, expected %d", i, len(rows[i]), want)
		}
	}
	if rows[0][0].Text != "a" || rows[2][0].Text != "e" {
		t.Fatalf("buttons out of order: %+v", rows)
	}
	if rows[0][1].Unique != "pick" {
		t.Fatalf("unique not carried through: %+v", rows[0][1])
	}
}

func TestInlineButtonsNPerRowSingleColumnFallback(t *testing.T) {
	buttons := []InlineBtn{
		{Text: "a", Unique: "x"},
		{Text: "b", Unique: "x"},
	}
	markup := InlineButtonsNPerRow(buttons, 0)
	if len(markup.InlineKeyboard) != 2 {
		t.Fatalf("expected one button per row, got %d rows", len(markup.InlineKeyboard))
	}
	for i, row := range markup.InlineKeyboard {
		if len(row) != 1 {
			t.Fatalf("row %d has %d buttons, expected 1", i, len(row))
		}
	}
}
