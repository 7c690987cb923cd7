package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Key/value blob store holding whole documents such as the workflow catalog
			CREATE TABLE blob_store (
				key VARCHAR(255) PRIMARY KEY,
				payload JSONB NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);
		`,
	}
}
