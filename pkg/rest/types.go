// Данный файл должен быть сгенерирован из openapi спецификации и называться types.gen.go
package rest

import "time"

// PurchaseRequest Заказ на покупку предмета
type PurchaseRequest struct {
	// RequestID Ключ идемпотентности
	RequestID string `json:"requestId" validate:"omitempty,max=128"`

	// HashName Полное имя предмета на маркете
	HashName string `json:"hashName" validate:"required,max=256"`

	// MaxPrice Максимальная цена, без ограничения если не задана
	MaxPrice *int64 `json:"maxPrice,omitempty" validate:"omitempty,gte=0"`

	Recipient *Recipient `json:"recipient,omitempty"`
}

// Recipient Получатель предмета
type Recipient struct {
	PartnerID string `json:"partnerId" validate:"required,numeric"`
	Token     string `json:"token" validate:"required,alphanum"`
}

// Purchase Результат покупки
type Purchase struct {
	PurchaseID  string `json:"purchaseId"`
	ClassID     string `json:"classId"`
	InstanceID  string `json:"instanceId"`
	Price       int64  `json:"price"`
	ListedPrice int64  `json:"listedPrice"`
}

// QueuedPurchase Заказ, поставленный в очередь
type QueuedPurchase struct {
	TaskID string `json:"taskId"`
}

// PurchaseRecord Запись журнала покупок
type PurchaseRecord struct {
	ID          string    `json:"id"`
	RequestID   string    `json:"requestId,omitempty"`
	HashName    string    `json:"hashName"`
	MaxPrice    *int64    `json:"maxPrice,omitempty"`
	PurchaseID  string    `json:"purchaseId,omitempty"`
	Price       int64     `json:"price,omitempty"`
	ListedPrice int64     `json:"listedPrice,omitempty"`
	ErrorCode   string    `json:"errorCode,omitempty"`
	ErrorSource string    `json:"errorSource,omitempty"`
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ItemStage Статус доставки предмета
type ItemStage struct {
	ItemID int64  `json:"itemId"`
	Stage  int    `json:"stage"`
	Name   string `json:"name"`
}

// Settings Настройки закупки
type Settings struct {
	// Balance Баланс в минимальных единицах, null если неизвестен
	Balance *int64 `json:"balance"`

	// Discount Скидка покупателя от 0 до 1
	Discount string `json:"discount"`
}

// SettingsUpdate Изменение настроек, незаданные поля не меняются
type SettingsUpdate struct {
	Balance        *int64  `json:"balance,omitempty" validate:"omitempty,gte=0"`
	UnknownBalance bool    `json:"unknownBalance,omitempty" validate:"excluded_with=Balance"`
	Discount       *string `json:"discount,omitempty" validate:"omitempty,numeric"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`

	// Source Кто должен устранить причину: market, owner или user
	Source string `json:"source,omitempty"`

	// Details Контекст ошибки
	Details map[string]any `json:"details,omitempty"`
}

// ErrorCode Код ошибки
type ErrorCode string
