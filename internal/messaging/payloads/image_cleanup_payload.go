package payloads

// ImageCleanupPayload описывает картинку рецепта, которую нужно удалить из хранилища
// через RabbitMQ.
type ImageCleanupPayload struct {
	Key      string `json:"key"`
	RecipeID int64  `json:"recipe_id"`
	Reason   string `json:"reason"`
}
