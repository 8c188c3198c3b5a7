package mysql

// The room row is the serialization point: Reserve locks it FOR UPDATE so
// concurrent admissions for the same room queue, while other rooms proceed.
const lockRoomSQL = `SELECT id FROM rooms WHERE id = ? FOR UPDATE`

// Narrowed to ranges that can overlap the candidate; the half-open overlap
// decision itself happens in the domain detector against this snapshot.
const confirmedRangesForUpdateSQL = `
SELECT check_in, check_out
FROM reservations
WHERE room_id = ? AND status = 'confirmed'
  AND check_out > ? AND check_in < ?
`

const insertReservationSQL = `
INSERT INTO reservations
  (id, room_id, check_in, check_out, guest_name, guest_email, guest_phone, status, guest_token)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const cancelReservationSQL = `
UPDATE reservations SET status = 'cancelled' WHERE id = ?
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const reservationColumns = `
  id, room_id, check_in, check_out, guest_name, guest_email, guest_phone,
  status, guest_token, created_at`

const getReservationSQL = `
SELECT` + reservationColumns + `
FROM reservations
WHERE id = ?
`

const getReservationByTokenSQL = `
SELECT` + reservationColumns + `
FROM reservations
WHERE guest_token = ?
`

const listConfirmedRangesSQL = `
SELECT check_in, check_out
FROM reservations
WHERE room_id = ? AND status = 'confirmed'
ORDER BY check_in
`

const listConfirmedRangesWindowSQL = `
SELECT check_in, check_out
FROM reservations
WHERE room_id = ? AND status = 'confirmed'
  AND check_out > ? AND check_in < ?
ORDER BY check_in
`

const getRoomSQL = `
SELECT id, room_type, name, capacity FROM rooms WHERE id = ?
`

const listRoomsSQL = `
SELECT id, room_type, name, capacity FROM rooms ORDER BY room_type, id
`
