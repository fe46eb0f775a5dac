package driver

const (
	// SaveMovieNodeQuery upserts one positioned movie node within a run
	// snapshot. node_id is only unique inside the run that produced it.
	SaveMovieNodeQuery = `
		MERGE (m:Movie {run_id: $run_id, node_id: $node_id})
		SET m.title = $title,
			m.imdb_id = $imdb_id,
			m.year = $year,
			m.rating = $rating,
			m.director = $director,
			m.genres = $genres,
			m.actors = $actors,
			m.poster = $poster,
			m.x = $x,
			m.y = $y,
			m.z = $z,
			m.created_at = $created_at
		RETURN m.node_id AS node_id
	`

	// SaveSimilarEdgeQuery links two movie nodes of the same run with their
	// similarity weight.
	SaveSimilarEdgeQuery = `
		MATCH (a:Movie {run_id: $run_id, node_id: $from})
		MATCH (b:Movie {run_id: $run_id, node_id: $to})
		MERGE (a)-[e:SIMILAR_TO]->(b)
		SET e.weight = $weight,
			e.run_id = $run_id
		RETURN e.weight AS weight
	`

	// DeleteRunQuery removes a whole snapshot, nodes and edges together.
	DeleteRunQuery = `
		MATCH (m:Movie {run_id: $run_id})
		DETACH DELETE m
	`

	// GetRunEdgesQuery reads a snapshot's edge list back, normalized from < to.
	GetRunEdgesQuery = `
		MATCH (a:Movie {run_id: $run_id})-[e:SIMILAR_TO]->(b:Movie {run_id: $run_id})
		RETURN a.node_id AS from, b.node_id AS to, e.weight AS weight
		ORDER BY a.node_id, b.node_id
	`
)
