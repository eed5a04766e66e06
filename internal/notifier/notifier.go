// Package notifier публикует уведомления жизненного цикла в RabbitMQ.
//
// Публикация выполняется после фиксации транзакции перехода; доставку писем
// выполняет отдельный сервис-потребитель, поэтому задержка почтового
// провайдера не влияет на время ответа административного API.
package notifier

import (
	"log/slog"

	librabbitmq "github.com/magabrotheeeer/account-lifecycle/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/account-lifecycle/internal/models"
	"github.com/magabrotheeeer/account-lifecycle/internal/rabbitmq"
)

// Notifier отправляет сообщения в exchange уведомлений.
type Notifier struct {
	ch  librabbitmq.Channel
	log *slog.Logger
}

// New создает новый экземпляр Notifier.
func New(ch librabbitmq.Channel, log *slog.Logger) *Notifier {
	return &Notifier{ch: ch, log: log}
}

// Send публикует сообщение с ключом маршрутизации, равным типу уведомления.
func (n *Notifier) Send(kind models.NotificationKind, msg models.NotificationMessage) error {
	n.log.Debug("publishing lifecycle notification",
		slog.String("kind", string(kind)),
		slog.String("account_id", msg.AccountID.String()))
	return librabbitmq.PublishMessage(n.ch, rabbitmq.Exchange, string(kind), msg)
}
