package queries

const (
	QueryCreateChat = `
		INSERT INTO chats (ws_id, name, type, members)
		VALUES ($1, $2, $3, $4)
		RETURNING id, ws_id, name, type, members, created_at;
	`
	QueryGetChatByID = `
		SELECT id, ws_id, name, type, members, created_at
		FROM chats
		WHERE id = $1 AND deleted_at IS NULL;
	`
	// FOR UPDATE: мутации membership сериализуются по строке чата,
	// частично изменённое множество никогда не видно конкурентным читателям.
	QueryGetChatByIDForUpdate = `
		SELECT id, ws_id, name, type, members, created_at
		FROM chats
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE;
	`
	QueryListChatsForMember = `
		SELECT id, ws_id, name, type, members, created_at
		FROM chats
		WHERE ws_id = $1 AND $2 = ANY(members) AND deleted_at IS NULL
		ORDER BY id;
	`
	QueryUpdateChatName = `
		UPDATE chats
		SET name = $2
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id, ws_id, name, type, members, created_at;
	`
	QueryUpdateChatMembers = `
		UPDATE chats
		SET members = $2
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id, ws_id, name, type, members, created_at;
	`
	// Чат с сообщениями никогда не удаляется физически — только помечается.
	QueryDeleteChat = `
		UPDATE chats
		SET deleted_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id, ws_id, name, type, members, created_at;
	`
	// Счётчик событий чата: инкремент в той же транзакции, что и мутация,
	// даёт commit-ordered seq в рамках чата.
	QueryNextChatEventSeq = `
		UPDATE chats
		SET event_seq = event_seq + 1
		WHERE id = $1
		RETURNING event_seq;
	`
)
