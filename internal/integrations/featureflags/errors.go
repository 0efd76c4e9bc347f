package featureflags

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("featureflags client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("featureflags client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation:
	// провайдер флагов недоступен, используются значения по умолчанию
	ErrServiceDegraded = errors.New("featureflags unavailable: graceful degradation applied")
)
