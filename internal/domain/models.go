// Package domain holds the rows of the food-ordering schema. Each type lists
// its fields in table column order; Args returns them as insert arguments.
package domain

import "database/sql"

// TimeLayout is the text form of DATETIME columns.
const TimeLayout = "2006-01-02 15:04:05"

type Category struct {
	ID   int64  `db:"category_id"`
	Name string `db:"name"`
}

func (c Category) Args() []any { return []any{c.ID, c.Name} }

type Dish struct {
	ID          int64           `db:"dish_id"`
	CategoryID  sql.NullInt64   `db:"category_id"`
	Name        string          `db:"name"`
	Description sql.NullString  `db:"description"`
	Price       sql.NullFloat64 `db:"price"`
}

func (d Dish) Args() []any {
	return []any{d.ID, d.CategoryID, d.Name, d.Description, d.Price}
}

type Order struct {
	ID         int64           `db:"order_id"`
	UserID     int64           `db:"user_id"`
	TotalPrice sql.NullFloat64 `db:"total_price"`
	Status     sql.NullString  `db:"status"`
	CreatedAt  sql.NullTime    `db:"created_at"`
}

func (o Order) Args() []any {
	return []any{o.ID, o.UserID, o.TotalPrice, o.Status, timeArg(o.CreatedAt)}
}

type OrderDetail struct {
	ID       int64           `db:"order_detail_id"`
	OrderID  sql.NullInt64   `db:"order_id"`
	DishID   sql.NullInt64   `db:"dish_id"`
	Quantity sql.NullInt64   `db:"quantity"`
	Price    sql.NullFloat64 `db:"price"`
}

func (d OrderDetail) Args() []any {
	return []any{d.ID, d.OrderID, d.DishID, d.Quantity, d.Price}
}

type PaymentMethod struct {
	ID     int64  `db:"payment_method_id"`
	Method string `db:"method"`
}

func (m PaymentMethod) Args() []any { return []any{m.ID, m.Method} }

type Payment struct {
	ID              int64           `db:"payment_id"`
	OrderID         sql.NullInt64   `db:"order_id"`
	PaymentMethodID sql.NullInt64   `db:"payment_method_id"`
	Amount          sql.NullFloat64 `db:"amount"`
	PaidAt          sql.NullTime    `db:"paid_at"`
}

func (p Payment) Args() []any {
	return []any{p.ID, p.OrderID, p.PaymentMethodID, p.Amount, timeArg(p.PaidAt)}
}

type Review struct {
	ID        int64          `db:"review_id"`
	UserID    sql.NullInt64  `db:"user_id"`
	DishID    sql.NullInt64  `db:"dish_id"`
	Rating    sql.NullInt64  `db:"rating"`
	Comment   sql.NullString `db:"comment"`
	CreatedAt sql.NullTime   `db:"created_at"`
}

func (r Review) Args() []any {
	return []any{r.ID, r.UserID, r.DishID, r.Rating, r.Comment, timeArg(r.CreatedAt)}
}

// Tuple is any row convertible to positional insert arguments.
type Tuple interface {
	Args() []any
}

// Tuples converts typed rows into the [][]any form used by batch inserts.
func Tuples[T Tuple](rows ...T) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = r.Args()
	}
	return out
}

// timeArg writes DATETIME values as text so the stored form does not depend on
// the driver's time encoding.
func timeArg(t sql.NullTime) any {
	if !t.Valid {
		return nil
	}
	return t.Time.Format(TimeLayout)
}
