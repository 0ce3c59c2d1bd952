package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClusterRepository stores the latest user clustering
type ClusterRepository struct {
	db *pgxpool.Pool
}

// NewClusterRepository creates a new cluster repository
func NewClusterRepository(db *pgxpool.Pool) *ClusterRepository {
	return &ClusterRepository{db: db}
}

// Replace drops all clusters and writes groups in their place. It must run
// inside q's transaction so readers never see a half-written clustering.
func (r *ClusterRepository) Replace(ctx context.Context, q Querier, groups [][]int64) error {
	if _, err := q.Exec(ctx, `DELETE FROM clusters`); err != nil {
		return fmt.Errorf("clear clusters: %w", err)
	}

	for i, users := range groups {
		var clusterID int64
		if err := q.QueryRow(ctx, `INSERT INTO clusters (name) VALUES ($1) RETURNING id`, fmt.Sprintf("%d", i)).Scan(&clusterID); err != nil {
			return fmt.Errorf("insert cluster: %w", err)
		}
		if len(users) == 0 {
			continue
		}
		_, err := q.Exec(ctx, `
			INSERT INTO cluster_users (cluster_id, user_id)
			SELECT $1, u FROM UNNEST($2::bigint[]) AS u`, clusterID, users)
		if err != nil {
			return fmt.Errorf("insert cluster users: %w", err)
		}
	}
	return nil
}

// Peers returns the other members of userID's cluster and whether the user is clustered at all
func (r *ClusterRepository) Peers(ctx context.Context, userID int64) ([]int64, bool, error) {
	var clusterID int64
	err := r.db.QueryRow(ctx, `SELECT cluster_id FROM cluster_users WHERE user_id = $1`, userID).Scan(&clusterID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find cluster: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT user_id FROM cluster_users WHERE cluster_id = $1 AND user_id <> $2 ORDER BY user_id`,
		clusterID, userID)
	if err != nil {
		return nil, false, fmt.Errorf("list cluster peers: %w", err)
	}
	defer rows.Close()

	peers := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, false, err
		}
		peers = append(peers, id)
	}
	return peers, true, rows.Err()
}
