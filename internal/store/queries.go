package store

// SQL query constants organized by entity.
// All SQL lives here; PostgresStore methods reference these constants.

// Store queries.
const (
	storeColumns = `id, name, chain, address, external_store_id, url_base,
		latitude, longitude, active, created_at`

	queryUpsertStore = `
		INSERT INTO stores (
			name, chain, address, external_store_id, url_base,
			latitude, longitude, active
		) VALUES (
			@name, @chain, @address, @external_store_id, @url_base,
			@latitude, @longitude, @active
		)
		ON CONFLICT (name) DO UPDATE SET
			chain             = EXCLUDED.chain,
			address           = EXCLUDED.address,
			external_store_id = EXCLUDED.external_store_id,
			url_base          = EXCLUDED.url_base,
			latitude          = EXCLUDED.latitude,
			longitude         = EXCLUDED.longitude,
			active            = EXCLUDED.active
		RETURNING id, created_at`

	queryGetStore = `SELECT ` + storeColumns + ` FROM stores WHERE id = $1`

	queryGetStoreByName = `SELECT ` + storeColumns + ` FROM stores WHERE name = $1`

	queryListStores = `
		SELECT ` + storeColumns + `
		FROM stores
		WHERE active OR NOT $1
		ORDER BY chain, name`
)

// Product and store item queries.
const (
	queryGetOrCreateProduct = `
		INSERT INTO products (name, normalized_name, category, image_url)
		VALUES (@name, @normalized_name, @category, @image_url)
		ON CONFLICT ((lower(name))) DO UPDATE SET name = products.name
		RETURNING id, name, normalized_name, category, image_url, barcode, created_at,
			(xmax = 0) AS created`

	queryListProducts = `
		SELECT id, name, normalized_name, category, image_url, barcode, created_at
		FROM products
		WHERE id = ANY($1)
		ORDER BY id`

	queryBackfillProductImage = `
		UPDATE products SET image_url = $2
		WHERE id = $1 AND (image_url = '' OR image_url = $3)`

	queryUpsertStoreItem = `
		INSERT INTO store_items (
			store_id, product_id, price, price_per_100g, url, in_stock, updated_at
		) VALUES (
			@store_id, @product_id, @price, @price_per_100g, @url, @in_stock, now()
		)
		ON CONFLICT (store_id, product_id) DO UPDATE SET
			price          = EXCLUDED.price,
			price_per_100g = EXCLUDED.price_per_100g,
			url            = EXCLUDED.url,
			in_stock       = EXCLUDED.in_stock,
			updated_at     = now()
		RETURNING id, quality_score, updated_at`

	queryApplyPriceUpdate = `
		UPDATE store_items SET
			price          = @price,
			price_per_100g = @price_per_100g,
			in_stock       = @in_stock,
			updated_at     = @updated_at
		WHERE id = @id
		RETURNING id, store_id, product_id, price, price_per_100g, url,
			in_stock, quality_score, updated_at`

	queryAppendPriceHistory = `
		INSERT INTO price_history (product_id, store_id, store_name, price, in_stock, scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	scrapeTargetSelect = `
		SELECT si.id, si.store_id, si.product_id, si.price, si.price_per_100g, si.url,
			si.in_stock, si.quality_score, si.updated_at,
			s.id, s.name, s.chain, s.address, s.external_store_id, s.url_base,
			s.latitude, s.longitude, s.active, s.created_at,
			p.name, p.image_url
		FROM store_items si
		JOIN stores s ON s.id = si.store_id
		JOIN products p ON p.id = si.product_id`

	queryGetScrapeTarget = scrapeTargetSelect + `
		WHERE si.id = $1`

	queryListScrapeTargets = scrapeTargetSelect + `
		WHERE si.url <> ''
		  AND ($1::bigint IS NULL OR si.store_id = $1)
		ORDER BY si.store_id, si.id`
)

// Read-side queries.
const (
	queryComparePrices = `
		SELECT p.id, p.name, s.id, s.name, s.chain,
			si.price, si.price_per_100g, si.in_stock, si.updated_at
		FROM store_items si
		JOIN products p ON p.id = si.product_id
		JOIN stores s ON s.id = si.store_id
		WHERE p.normalized_name LIKE '%' || $1 || '%'
		ORDER BY si.price ASC, p.id, s.id
		LIMIT $2`

	queryListPriceHistory = `
		SELECT id, product_id, store_id, store_name, price, in_stock, scraped_at
		FROM price_history
		WHERE store_id = $1 AND scraped_at >= $2
		ORDER BY product_id, scraped_at, id`
)

// Task log queries.
const (
	taskColumns = `task_id, name, kind, store_id, status,
		items_total, items_processed, items_failed, message, error_message,
		created_at, started_at, completed_at`

	queryCreateTaskLog = `
		INSERT INTO task_logs (task_id, name, kind, store_id, status, items_total)
		VALUES (@task_id, @name, @kind, @store_id, @status, @items_total)
		ON CONFLICT (task_id) DO NOTHING`

	queryGetTaskLog = `SELECT ` + taskColumns + ` FROM task_logs WHERE task_id = $1`

	queryGetTaskLogForUpdate = queryGetTaskLog + ` FOR UPDATE`

	queryUpdateTaskLog = `
		UPDATE task_logs SET
			status          = @status,
			items_total     = @items_total,
			items_processed = @items_processed,
			items_failed    = @items_failed,
			message         = @message,
			error_message   = @error_message,
			started_at      = @started_at,
			completed_at    = @completed_at
		WHERE task_id = @task_id`

	queryDeleteTaskLog = `
		DELETE FROM task_logs WHERE task_id = $1 AND status = 'completed'`

	queryTaskLogExists = `SELECT EXISTS(SELECT 1 FROM task_logs WHERE task_id = $1)`
)

// Scheduler queries.
const (
	queryAcquireSchedulerLock = `
		INSERT INTO scheduler_locks (job_name, lock_holder, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (job_name) DO UPDATE
			SET locked_at   = now(),
				lock_holder = EXCLUDED.lock_holder,
				expires_at  = EXCLUDED.expires_at
			WHERE scheduler_locks.expires_at < now()
		RETURNING job_name`

	queryReleaseSchedulerLock = `
		DELETE FROM scheduler_locks WHERE job_name = $1 AND lock_holder = $2`
)

// Job queue queries.
const (
	queryEnqueueJob = `
		INSERT INTO scrape_jobs (kind, task_id, payload, run_at, max_attempts)
		VALUES ($1, $2, $3, $4, $5)`

	queryClaimJobs = `
		WITH claimed AS (
			SELECT id FROM scrape_jobs
			WHERE completed_at IS NULL
			  AND run_at <= now()
			  AND (claimed_at IS NULL OR claimed_at < now() - make_interval(secs => $3))
			ORDER BY run_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		UPDATE scrape_jobs
		SET claimed_at = now(), claimed_by = $1, attempt = attempt + 1
		FROM claimed
		WHERE scrape_jobs.id = claimed.id
		RETURNING scrape_jobs.id, scrape_jobs.kind, scrape_jobs.task_id,
		          scrape_jobs.payload, scrape_jobs.run_at, scrape_jobs.attempt,
		          scrape_jobs.max_attempts, COALESCE(scrape_jobs.last_error, ''),
		          scrape_jobs.created_at`

	queryCompleteJob = `
		UPDATE scrape_jobs
		SET completed_at = now(), last_error = NULLIF($2, '')
		WHERE id = $1`

	queryRetryJob = `
		UPDATE scrape_jobs
		SET run_at = $2, claimed_at = NULL, claimed_by = NULL, last_error = NULLIF($3, '')
		WHERE id = $1`

	queryCountPendingJobs = `
		SELECT COUNT(*) FROM scrape_jobs WHERE completed_at IS NULL`
)
