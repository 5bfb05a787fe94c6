// Package notify предоставляет системные уведомления.
package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

const appName = "Whisper Transcribe"

// Notifier отправляет системные уведомления.
type Notifier struct {
	enabled bool
	send    func(title, message string) error
}

// New создаёт новый Notifier.
func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled, send: func(title, message string) error {
		return beeep.Notify(title, message, "")
	}}
}

// BatchDone показывает итог пакетной обработки.
func (n *Notifier) BatchDone(done, skipped, failed int) {
	title := "готово"
	if failed > 0 {
		title = "завершено с ошибками"
	}
	n.notify(title, fmt.Sprintf("расшифровано: %d, пропущено: %d, ошибок: %d", done, skipped, failed))
}

// ModelReady показывает уведомление о скачанной модели.
func (n *Notifier) ModelReady(name string) {
	n.notify("модель скачана", name)
}

// Error показывает уведомление об ошибке.
func (n *Notifier) Error(msg string) {
	if len(msg) > 100 {
		msg = msg[:100] + "..."
	}
	n.notify("ошибка", msg)
}

func (n *Notifier) notify(title, message string) {
	if !n.enabled {
		return
	}
	// Игнорируем ошибки уведомлений - они не критичны
	_ = n.send(appName+": "+title, message)
}
