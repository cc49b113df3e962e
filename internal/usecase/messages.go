package usecase

import (
	"fmt"
	"strings"

	"cabin-booking/internal/data/entity"
)

// User-facing messages. The service speaks German; the stable error kind in
// pkg/apperr is what callers and tests branch on.
const (
	msgEndBeforeStart = "Ende darf nicht vor dem Start liegen."
	msgPastReadOnly   = "Dieser Eintrag liegt in der Vergangenheit und kann nicht mehr geändert werden."
	msgInvalidName    = "Bitte gib einen gültigen Vornamen an (Buchstaben, Leerzeichen, Bindestrich, Apostroph; max. 40 Zeichen)."
	msgNoLinks        = "Links sind hier nicht erlaubt. Bitte Text ohne Links verwenden."
	msgNotFound       = "Der Eintrag konnte leider nicht gefunden werden."
	msgNoAccess       = "Du hast keinen Zugriff auf diesen Eintrag."
	msgInvalidDate    = "Ungültiges Datum."
	msgCancelDenied   = "Eine abgelehnte Anfrage kann nicht storniert werden."
	msgReasonRequired = "Bitte gib einen kurzen Grund an."
	msgDecisionClosed = "Diese Anfrage kann nicht mehr beantwortet werden."
)

func msgFutureHorizon(months int) string {
	return fmt.Sprintf("Anfragen dürfen nur maximal %d Monate im Voraus gestellt werden.", months)
}

func msgLongStay(totalDays int) string {
	return fmt.Sprintf("Die Anfrage ist für %d Tage. Bitte bestätige, dass du einen längeren Aufenthalt planst.", totalDays)
}

func msgTextTooLong(max int) string {
	return fmt.Sprintf("Text ist zu lang (max. %d Zeichen).", max)
}

func msgPartySizeRange(max int) string {
	return fmt.Sprintf("Die Gruppengröße muss zwischen 1 und %d liegen.", max)
}

// msgConflict names the conflicting requester and the German status label,
// never the conflicting booking's id or email.
func msgConflict(requesterFirstName string, status entity.BookingStatus) string {
	label := string(status)
	switch status {
	case entity.BookingStatusPending:
		label = "Ausstehend"
	case entity.BookingStatusConfirmed:
		label = "Bestätigt"
	}
	return fmt.Sprintf("Dieser Zeitraum überschneidet sich mit einer bestehenden Buchung (%s – %s).", requesterFirstName, label)
}

// msgCanceled is the fixed cancel confirmation naming all three approvers.
func msgCanceled() string {
	parties := entity.AllParties()
	names := make([]string, len(parties))
	for i, p := range parties {
		names[i] = string(p)
	}
	return fmt.Sprintf("Anfrage storniert. Benachrichtigt: %s und %s.",
		strings.Join(names[:len(names)-1], ", "), names[len(names)-1])
}
