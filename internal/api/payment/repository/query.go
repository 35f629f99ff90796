package paymentRepository

const (
	orderColumns = `
			id,
			user_id,
			request_id,
			payment_method,
			amount,
			currency,
			status,
			provider,
			phone_number,
			customer_name,
			customer_email,
			qr_string,
			response_code,
			transaction_id,
			transaction_reference,
			proof_url,
			created_at,
			updated_at
	`

	queryCreateOrder = `
		INSERT INTO payment_orders (
			id,
			user_id,
			request_id,
			payment_method,
			amount,
			currency,
			status,
			provider,
			phone_number,
			customer_name,
			customer_email,
			qr_string,
			created_at,
			updated_at
		) VALUES (
			:id,
			:user_id,
			:request_id,
			:payment_method,
			:amount,
			:currency,
			:status,
			:provider,
			:phone_number,
			:customer_name,
			:customer_email,
			:qr_string,
			:created_at,
			:updated_at
		)
	`

	queryGetOrderByID = `SELECT` + orderColumns + `FROM payment_orders WHERE id = :id`

	queryGetOrderByRequestID = `SELECT` + orderColumns + `FROM payment_orders WHERE request_id = :request_id`

	queryLockOrderByRequestID = queryGetOrderByRequestID + ` FOR UPDATE`

	queryUpdateOrderStatus = `
		UPDATE payment_orders
		SET
			status = :status,
			response_code = :response_code,
			transaction_id = COALESCE(NULLIF(:transaction_id, ''), transaction_id),
			transaction_reference = COALESCE(NULLIF(:transaction_reference, ''), transaction_reference),
			updated_at = :updated_at
		WHERE id = :id
	`

	queryUpdateProofURL = `
		UPDATE payment_orders
		SET
			proof_url = :proof_url,
			updated_at = :updated_at
		WHERE id = :id
	`

	queryListOrdersByUserID = `SELECT` + orderColumns + `FROM payment_orders
		WHERE user_id = :user_id
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountOrdersByUserID = `
		SELECT COUNT(*)
		FROM payment_orders
		WHERE user_id = :user_id
	`
)
