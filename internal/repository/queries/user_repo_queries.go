package queries

const (
	QueryCreateUser = `
		INSERT INTO users (ws_id, fullname, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`
	QueryGetUserByID = `
		SELECT id, ws_id, fullname, email, password_hash, created_at
		FROM users
		WHERE id = $1;
	`
	QueryGetUserByEmail = `
		SELECT id, ws_id, fullname, email, password_hash, created_at
		FROM users
		WHERE email = $1;
	`
	QueryExistsUserByEmail = `SELECT 1 FROM users WHERE email = $1;`
	QueryCountUsersByIDs   = `SELECT COUNT(*) FROM users WHERE id = ANY($1);`
	QueryListChatUsers     = `
		SELECT id, fullname, email
		FROM users
		WHERE ws_id = $1
		ORDER BY id;
	`
)
