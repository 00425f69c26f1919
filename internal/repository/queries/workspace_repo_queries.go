package queries

const (
	// ON CONFLICT DO NOTHING: проигравший гонку за имя не роняет
	// транзакцию уникальным конфликтом, а перечитывает строку победителя.
	QueryCreateWorkspace = `
		INSERT INTO workspaces (name, owner_id)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, owner_id, created_at;
	`
	QueryGetWorkspaceByID = `
		SELECT id, name, owner_id, created_at
		FROM workspaces
		WHERE id = $1;
	`
	QueryGetWorkspaceByName = `
		SELECT id, name, owner_id, created_at
		FROM workspaces
		WHERE name = $1;
	`
	QueryUpdateWorkspaceOwner = `
		UPDATE workspaces
		SET owner_id = $2
		WHERE id = $1
		RETURNING id, name, owner_id, created_at;
	`
)
