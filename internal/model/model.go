// Package model содержит доменные сущности клиента витрины.
package model

import (
	"strings"
	"time"
)

// User представляет профиль аутентифицированного пользователя.
type User struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	DateJoined time.Time `json:"date_joined"`
}

// UserPatch содержит редактируемые поля профиля. Nil означает «не менять».
type UserPatch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
}

// Apply возвращает копию пользователя с применёнными изменениями.
func (p UserPatch) Apply(u User) User {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	return u
}

// PatchFromUser строит патч из профиля, уже подтверждённого сервером.
func PatchFromUser(u User) UserPatch {
	return UserPatch{
		FirstName: &u.FirstName,
		LastName:  &u.LastName,
		Phone:     &u.Phone,
		Address:   &u.Address,
	}
}

// Credentials описывает пару токенов доступа и обновления.
type Credentials struct {
	Access  string
	Refresh string
}

// Category описывает категорию товаров.
type Category struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	ProductCount int       `json:"product_count"`
}

// Product описывает товар в списках каталога. Цена передаётся строкой в десятичном формате.
type Product struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Price         string     `json:"price"`
	CategoryName  string     `json:"category_name"`
	Image         string     `json:"image,omitempty"`
	IsInStock     bool       `json:"is_in_stock"`
	AverageRating float64    `json:"average_rating"`
	ReviewCount   int        `json:"review_count"`
	StockQuantity *int       `json:"stock_quantity,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
}

// ProductImage описывает одно изображение товара.
type ProductImage struct {
	ID      int64  `json:"id"`
	Image   string `json:"image"`
	AltText string `json:"alt_text"`
}

// Review описывает отзыв о товаре.
type Review struct {
	ID        int64     `json:"id"`
	User      int64     `json:"user"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductDetail описывает карточку товара с категорией, изображениями и отзывами.
type ProductDetail struct {
	Product
	Category Category       `json:"category"`
	Images   []ProductImage `json:"images"`
	Reviews  []Review       `json:"reviews"`
}

// ProductPage описывает одну страницу списка товаров. Next и Previous передаются как есть.
type ProductPage struct {
	Results  []Product `json:"results"`
	Count    int       `json:"count"`
	Next     *string   `json:"next,omitempty"`
	Previous *string   `json:"previous,omitempty"`
}

// ProductFilter содержит параметры выборки списка товаров.
type ProductFilter struct {
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Ordering string
	Page     int
}

// CartItem описывает позицию корзины. Сумма позиции вычисляется сервером.
type CartItem struct {
	ID         int64     `json:"id"`
	Product    Product   `json:"product"`
	Quantity   int       `json:"quantity"`
	TotalPrice string    `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

// Cart описывает серверный снимок корзины. Итоги никогда не пересчитываются на клиенте.
type Cart struct {
	ID         int64      `json:"id"`
	Items      []CartItem `json:"items"`
	TotalPrice string     `json:"total_price"`
	TotalItems int        `json:"total_items"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// CartResponse описывает ответ мутирующих операций корзины.
type CartResponse struct {
	Message string `json:"message"`
	Cart    Cart   `json:"cart"`
}

// OrderStatus описывает статус заказа.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Color возвращает цвет бейджа статуса для отображения.
func (s OrderStatus) Color() string {
	switch s {
	case OrderStatusPending:
		return "yellow"
	case OrderStatusProcessing:
		return "blue"
	case OrderStatusShipped:
		return "purple"
	case OrderStatusDelivered:
		return "green"
	case OrderStatusCancelled:
		return "red"
	default:
		return "gray"
	}
}

// Label возвращает статус с заглавной буквы.
func (s OrderStatus) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// OrderItem описывает позицию заказа.
type OrderItem struct {
	ID         int64   `json:"id"`
	Product    Product `json:"product"`
	Quantity   int     `json:"quantity"`
	Price      string  `json:"price"`
	TotalPrice string  `json:"total_price"`
}

// Order описывает оформленный заказ.
type Order struct {
	ID              int64       `json:"id"`
	OrderNumber     string      `json:"order_number"`
	User            int64       `json:"user"`
	UserName        string      `json:"user_name"`
	TotalAmount     string      `json:"total_amount"`
	Status          OrderStatus `json:"status"`
	ShippingAddress string      `json:"shipping_address"`
	Phone           string      `json:"phone"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// LoginRequest содержит тело запроса входа.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest содержит тело запроса регистрации.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone,omitempty"`
	Address         string `json:"address,omitempty"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// AuthResponse описывает ответ входа и регистрации.
type AuthResponse struct {
	User    User   `json:"user"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	Message string `json:"message"`
}

// ChangePasswordRequest содержит тело запроса смены пароля.
type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

// ReviewRequest содержит тело запроса нового отзыва.
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// CreateOrderRequest содержит тело запроса оформления заказа.
type CreateOrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
	Phone           string `json:"phone"`
}

// OrderResponse описывает ответ оформления заказа.
type OrderResponse struct {
	Message string `json:"message"`
	Order   Order  `json:"order"`
}
