package domain

import "errors"

// ValidationError помечает ошибки пользовательского ввода: клиент исправляет
// данные и повторяет запрос, перезапуск на стороне сервера не нужен.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

var (
	// Ошибка отсутствующего имени клиента.
	ErrCustomerNameRequired = ValidationError("customer_name is required")
	// Ошибка отсутствующего телефона.
	ErrPhoneRequired = ValidationError("phone is required")
	// Ошибка отсутствующего района доставки.
	ErrDistrictRequired = ValidationError("district is required")
	// Ошибка отсутствующего адреса доставки.
	ErrDeliveryAddressRequired = ValidationError("delivery_address is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrItemsRequired = ValidationError("order must contain at least one item")
	// Ошибка отсутствующего названия товара в позиции.
	ErrItemNameRequired = ValidationError("item product_name is required")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQuantityInvalid = ValidationError("item quantity must be greater than zero")
	// Ошибка незнакомого значения срочности.
	ErrUnknownUrgency = ValidationError("urgency must be one of: standard, fast, express")
	// Ошибка незнакомого статуса заказа.
	ErrUnknownStatus = ValidationError("unknown order status")
	// Ошибка отрицательной расчётной стоимости.
	ErrCostNegative = ValidationError("estimated cost must be non-negative")

	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderAlreadyExists сигнализирует о конфликте идентификаторов при создании.
	ErrOrderAlreadyExists = errors.New("order already exists")

	// ErrInvalidPassword — пароль администратора не совпал.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrSessionNotFound — сессионный токен неизвестен или уже отозван.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired — срок действия сессии истёк.
	ErrSessionExpired = errors.New("session expired")
	// ErrSessionTokenRequired — пустой токен в запросе к хранилищу сессий.
	ErrSessionTokenRequired = errors.New("session token is required")
)

// IsValidation проверяет, относится ли ошибка (в том числе объединённая
// через errors.Join) к ошибкам пользовательского ввода.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}
