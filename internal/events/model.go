package events

// Event is a scheduled activity on a route. Date is ISO-8601.
type Event struct {
	ID          int    `json:"id"`
	RouteID     int    `json:"rutaId"`
	Date        string `json:"fechaEvento"`
	Description string `json:"descripcion"`
}
