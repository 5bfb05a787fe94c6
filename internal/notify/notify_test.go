package notify

import (
	"errors"
	"strings"
	"testing"
)

type sent struct{ title, message string }

func recording(n *Notifier) *[]sent {
	var got []sent
	n.send = func(title, message string) error {
		got = append(got, sent{title, message})
		return errors.New("нет dbus")
	}
	return &got
}

func TestBatchDone(t *testing.T) {
	n := New(true)
	got := recording(n)

	n.BatchDone(3, 1, 0)
	n.BatchDone(1, 0, 2)

	if len(*got) != 2 {
		t.Fatalf("отправлено %d уведомлений", len(*got))
	}
	if (*got)[0].title != "Whisper Transcribe: готово" || (*got)[0].message != "расшифровано: 3, пропущено: 1, ошибок: 0" {
		t.Errorf("первое уведомление %+v", (*got)[0])
	}
	if !strings.Contains((*got)[1].title, "с ошибками") {
		t.Errorf("второе уведомление %+v", (*got)[1])
	}
}

func TestDisabled(t *testing.T) {
	n := New(false)
	got := recording(n)

	n.Error("boom")
	n.ModelReady("Base")
	if len(*got) != 0 {
		t.Errorf("выключенный Notifier отправил %d уведомлений", len(*got))
	}
}

func TestErrorTruncated(t *testing.T) {
	n := New(true)
	got := recording(n)

	n.Error(strings.Repeat("x", 150))
	if len(*got) != 1 || len((*got)[0].message) != 103 {
		t.Errorf("длинное сообщение не обрезано: %+v", *got)
	}
}
