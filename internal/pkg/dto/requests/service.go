package requests

// UpsertService creates or updates a service. Price is in minor currency
// units, so 50000 is 500.00 INR. Zero makes the service free.
type UpsertService struct {
	ID          string `json:"id" validate:"omitempty,uuid"`
	ServiceName string `json:"service_name" validate:"required,max=120"`
	Price       *int64 `json:"price" validate:"required,gte=0"`
	Status      string `json:"status" validate:"required,oneof=active inactive"`
}
