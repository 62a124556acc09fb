package service

import "errors"

var (
	// ErrNotFound marks a missing record.
	ErrNotFound = errors.New("запись не найдена")
	// ErrInvalidCredentials marks a failed login attempt.
	ErrInvalidCredentials = errors.New("неверное имя пользователя или пароль")
	// ErrInvalidPassword marks a wrong current password on change.
	ErrInvalidPassword = errors.New("неверный пароль")
	// ErrCodeExists marks an attribute code collision.
	ErrCodeExists = errors.New("атрибут с таким кодом уже существует")
	// ErrNameExists marks an attribute name collision.
	ErrNameExists = errors.New("атрибут с таким названием уже существует")
	// ErrAttributeInUse blocks deleting attributes bound to schemas or values.
	ErrAttributeInUse = errors.New("атрибут используется и не может быть удален")
	// ErrInvalidStatus marks an unknown workflow status.
	ErrInvalidStatus = errors.New("неизвестный статус товара")
	// ErrInvalidTransition marks a forbidden workflow transition.
	ErrInvalidTransition = errors.New("недопустимый переход статуса")
	// ErrNotApproved blocks exporting products outside the approved status.
	ErrNotApproved = errors.New("товар не утвержден и не может быть экспортирован")
	// ErrMappingSessionNotFound marks an expired or unknown mapping session.
	ErrMappingSessionNotFound = errors.New("сессия маппинга не найдена или истекла")
	// ErrEmptyData marks an import source with no data rows.
	ErrEmptyData = errors.New("файл пуст или не содержит данных")
	// ErrSupplierExists marks a supplier code collision.
	ErrSupplierExists = errors.New("поставщик с таким кодом уже существует")
	// ErrRequestAlreadySent blocks re-sending a data request.
	ErrRequestAlreadySent = errors.New("запрос уже отправлен поставщику")
	// ErrRequestNotSent blocks receiving data on a request that was never sent.
	ErrRequestNotSent = errors.New("данные можно отметить только по отправленному запросу")
	// ErrRequestCompleted blocks cancelling a request with received data.
	ErrRequestCompleted = errors.New("нельзя отменить запрос, по которому уже получены данные")
)
