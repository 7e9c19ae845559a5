package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE workflows (
				id VARCHAR(255) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_workflows_created_at ON workflows(created_at);

			CREATE TABLE workflow_nodes (
				workflow_id VARCHAR(255) NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
				id VARCHAR(255) NOT NULL,
				node_type VARCHAR(50) NOT NULL,
				config JSONB DEFAULT '{}',
				position_x DOUBLE PRECISION DEFAULT 0,
				position_y DOUBLE PRECISION DEFAULT 0,
				PRIMARY KEY (workflow_id, id)
			);

			CREATE INDEX idx_workflow_nodes_type ON workflow_nodes(node_type);

			CREATE TABLE workflow_edges (
				workflow_id VARCHAR(255) NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
				id VARCHAR(255) NOT NULL,
				source_node_id VARCHAR(255) NOT NULL,
				target_node_id VARCHAR(255) NOT NULL,
				edge_type VARCHAR(50) NOT NULL DEFAULT 'default',
				PRIMARY KEY (workflow_id, id)
			);

			CREATE INDEX idx_workflow_edges_source ON workflow_edges(source_node_id);

			CREATE TABLE documents (
				id VARCHAR(255) PRIMARY KEY,
				filename VARCHAR(1024) NOT NULL,
				file_path VARCHAR(1024) NOT NULL,
				content_type VARCHAR(255),
				ingested BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_documents_created_at ON documents(created_at);

			CREATE TABLE chats (
				id VARCHAR(255) PRIMARY KEY,
				workflow_id VARCHAR(255) NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_chats_workflow_id ON chats(workflow_id);

			CREATE TABLE messages (
				id VARCHAR(255) PRIMARY KEY,
				chat_id VARCHAR(255) NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
				role VARCHAR(50) NOT NULL,
				content TEXT NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_messages_chat_id ON messages(chat_id);
			CREATE INDEX idx_messages_created_at ON messages(created_at);
		`,
	}
}
