package reminder

import "testing"

func TestExtractLocalizedForm(t *testing.T) {
	m, ok := Extract("10時に宿題をやる")
	if !ok {
		t.Fatal("expected match")
	}
	if m.Hour != 10 || m.Minute != 0 {
		t.Fatalf("got %d:%d, want 10:00", m.Hour, m.Minute)
	}
	if m.Task != "宿題をやる" {
		t.Fatalf("task = %q", m.Task)
	}
}

func TestExtractLocalizedFormWithMinute(t *testing.T) {
	m, ok := Extract("7時30分に起きる")
	if !ok {
		t.Fatal("expected match")
	}
	if m.Hour != 7 || m.Minute != 30 {
		t.Fatalf("got %d:%d, want 7:30", m.Hour, m.Minute)
	}
	if m.Task != "起きる" {
		t.Fatalf("task = %q", m.Task)
	}
}

func TestExtractColonForm(t *testing.T) {
	m, ok := Extract("15:30に散歩する")
	if !ok {
		t.Fatal("expected match")
	}
	if m.Hour != 15 || m.Minute != 30 {
		t.Fatalf("got %d:%d, want 15:30", m.Hour, m.Minute)
	}
	if m.Task != "散歩する" {
		t.Fatalf("task = %q", m.Task)
	}
}

func TestExtractColonFormRequiresTwoDigitMinute(t *testing.T) {
	if _, ok := Extract("15:3に散歩"); ok {
		t.Fatal("single-digit minute must not match the colon form")
	}
}

func TestExtractNoMatch(t *testing.T) {
	if _, ok := Extract("こんにちは"); ok {
		t.Fatal("greeting must not match")
	}
}

func TestExtractDefaultTask(t *testing.T) {
	m, ok := Extract("9時")
	if !ok {
		t.Fatal("expected match")
	}
	if m.Hour != 9 || m.Minute != 0 {
		t.Fatalf("got %d:%d, want 9:00", m.Hour, m.Minute)
	}
	if m.Task != DefaultTask {
		t.Fatalf("task = %q, want default %q", m.Task, DefaultTask)
	}
}

func TestExtractLocalizedOutranksColon(t *testing.T) {
	m, ok := Extract("12:00 より 10時に会議")
	if !ok {
		t.Fatal("expected match")
	}
	if m.Hour != 10 || m.Minute != 0 {
		t.Fatalf("localized form must win, got %d:%d", m.Hour, m.Minute)
	}
}

func TestExtractIsPure(t *testing.T) {
	inputs := []string{"10時に宿題をやる", "15:30に散歩する", "こんにちは", "9時"}
	for _, in := range inputs {
		m1, ok1 := Extract(in)
		m2, ok2 := Extract(in)
		if ok1 != ok2 || m1 != m2 {
			t.Errorf("Extract(%q) not deterministic: (%v,%v) vs (%v,%v)", in, m1, ok1, m2, ok2)
		}
	}
}

func TestExtractStripsConnectors(t *testing.T) {
	cases := map[string]string{
		"8時、ゴミ出し":  "ゴミ出し",
		"8時 ゴミ出し":  "ゴミ出し",
		"8時。ゴミ出し":  "ゴミ出し",
		"8時はゴミ出し":  "ゴミ出し",
	}
	for in, want := range cases {
		m, ok := Extract(in)
		if !ok {
			t.Errorf("Extract(%q): no match", in)
			continue
		}
		if m.Task != want {
			t.Errorf("Extract(%q).Task = %q, want %q", in, m.Task, want)
		}
	}
}

func TestExtractHourBounds(t *testing.T) {
	if m, ok := Extract("23時に就寝"); !ok || m.Hour != 23 {
		t.Fatalf("23時: ok=%v m=%+v", ok, m)
	}
	if m, ok := Extract("0時に確認"); !ok || m.Hour != 0 {
		t.Fatalf("0時: ok=%v m=%+v", ok, m)
	}
}
