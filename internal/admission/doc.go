// Package admission holds the two decision rules of the booking system:
// whether a court reservation collides with existing ones, and which
// status a new facility membership starts in. Everything here is pure;
// callers load the inputs from the database and persist the outcome.
package admission
