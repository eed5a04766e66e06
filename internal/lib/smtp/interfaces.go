// Package smtp содержит STARTTLS-транспорт для писем об изменениях
// жизненного цикла аккаунта.
package smtp

import "io"

// Client — минимальный набор команд SMTP-сессии, который нужен отправителю
// уведомлений: конверт, тело письма и завершение сессии.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface устанавливает SMTP-соединение и знает адрес отправителя,
// от имени которого уходят уведомления.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
