package queries

const (
	QueryInsertMessage = `
		INSERT INTO messages (id, chat_id, sender_id, content, files)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at;
	`
	// Курсор по значению id (UUIDv7 сравнивается побайтово в порядке
	// времени), поэтому конкурентные вставки не сдвигают страницы.
	QueryListMessages = `
		SELECT id, chat_id, sender_id, content, files, created_at
		FROM messages
		WHERE chat_id = $1
		  AND ($2::uuid IS NULL OR id < $2)
		ORDER BY id DESC
		LIMIT $3;
	`
)
