package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден
	ErrNotFound           = errors.New("requested resource not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")

	// Ошибки валидации входных данных
	ErrTournamentNameInvalid = errors.New("tournament name must be between 3 and 128 characters")
	ErrDescriptionTooLong    = errors.New("description must be at most 500 characters")
	ErrSetsToWinInvalid      = errors.New("sets to win must be 1 or 2")
	ErrPlayoffFormatInvalid  = errors.New("unsupported playoff format")
	ErrPasswordTooShort      = errors.New("password must be at least 8 characters")
	ErrNoSetsSubmitted       = errors.New("at least one set score is required")

	// Ошибки конфликтов
	ErrUserEmailConflict    = errors.New("email address is already in use")
	ErrUserUsernameConflict = errors.New("username is already in use")
	ErrUserHasMatches       = errors.New("cannot delete a user with recorded matches")

	// Ошибки жизненного цикла турнира
	ErrRegistrationNotOpen        = errors.New("tournament is not accepting registrations")
	ErrAlreadyRegistered          = errors.New("user is already registered for this tournament")
	ErrNotRegistered              = errors.New("user is not registered for this tournament")
	ErrNotEnoughPlayers           = errors.New("at least two registered players are required")
	ErrFixturesAlreadyExist       = errors.New("group stage fixtures already exist")
	ErrInvalidStatusTransition    = errors.New("operation is not valid for the current tournament status")
	ErrGroupMatchesPending        = errors.New("group matches are still scheduled or awaiting confirmation")
	ErrTournamentAlreadyDone      = errors.New("cannot cancel a completed tournament")
	ErrTournamentAlreadyCancelled = errors.New("tournament is already cancelled")
	ErrChampionshipUnresolved     = errors.New("championship match is not confirmed yet")

	// Ошибки цикла подтверждения матча
	ErrNotParticipant      = errors.New("user is not a participant in this match")
	ErrMatchNotScheduled   = errors.New("score can only be submitted for a scheduled match")
	ErrMatchNotPending     = errors.New("match is not awaiting confirmation")
	ErrMatchNotDisputed    = errors.New("only disputed matches can be reset")
	ErrMatchNotForfeitable = errors.New("match can no longer be forfeited")
	ErrSelfConfirmation    = errors.New("submitter cannot act on their own score report")
	ErrMatchMissingWinner  = errors.New("match has no recorded winner")
	ErrSelfChallenge       = errors.New("cannot challenge yourself")

	// Ошибки аутентификации и доступа
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")
	ErrSelfAdminToggle    = errors.New("cannot change your own admin status")
	ErrSelfDeletion       = errors.New("cannot delete your own account")
)
