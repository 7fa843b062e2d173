package chessdto

type CreateGameRequest struct {
	Metadata *string `json:"metadata,omitempty"`
	VsAI     bool    `json:"vs_ai"`
}

type MoveRequest struct {
	Move      string  `json:"move"`
	Promotion *string `json:"promotion,omitempty"`
}
