package health

type Input struct{}

type Output struct {
	Body Response
}

// Response database заполняется, только когда сервер работает с Postgres
type Response struct {
	Status   string `json:"status" example:"OK" doc:"Server status"`
	Database string `json:"database,omitempty" example:"up" doc:"Datastore reachability"`
}
