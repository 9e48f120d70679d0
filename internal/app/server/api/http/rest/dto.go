package rest

type pushInput struct {
	Table string `path:"table" doc:"Table name"`
	Body  struct {
		Rows       []map[string]any `json:"rows" doc:"Rows to insert or update"`
		OnConflict string           `json:"on_conflict,omitempty" doc:"Conflict column, only id is supported"`
	}
}

type pushOutput struct {
	Body PushResponse
}

type PushResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type pullInput struct {
	Table  string `path:"table" doc:"Table name"`
	ShopID string `query:"shop_id" doc:"Must match the token shop when set"`
	Column string `query:"column" doc:"updated_at or created_at"`
	After  string `query:"after" doc:"Exclusive lower bound, ISO-8601"`
}

type pullOutput struct {
	Body PullResponse
}

type PullResponse struct {
	Rows []map[string]any `json:"rows"`
}
