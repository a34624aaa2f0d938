package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Spanish translations for every user-facing string. English entries are
// implicit: the key itself is the English text.
func init() {
	es := language.Spanish

	entries := map[string]string{
		"You have joined the lottery!":                              "¡Te has unido a la lotería!",
		"You have left the lottery.":                                "Has salido de la lotería.",
		"You are already participating in this lottery.":            "Ya estás participando en esta lotería.",
		"You are not participating in this lottery.":                "No estás participando en esta lotería.",
		"This lottery is not active.":                               "Esta lotería no está activa.",
		"Lottery not found.":                                        "Lotería no encontrada.",
		"You don't have enough skulls to join this lottery.":        "No tienes suficientes calaveras para unirte a esta lotería.",
		"Requested tickets exceed the per-user limit.":              "Los boletos solicitados superan el límite por usuario.",
		"Please select a draw method before confirming.":            "Selecciona un método de sorteo antes de confirmar.",
		"Lottery started successfully!":                             "¡La lotería ha comenzado con éxito!",
		"Lottery cancelled.":                                        "Lotería cancelada.",
		"Multiple lotteries are active, pass the id option.":        "Hay varias loterías activas, indica la opción id.",
		"Auto draw enabled. Winners are selected when time is up.":  "Sorteo automático activado. Los ganadores se seleccionan al terminar el tiempo.",
		"Manual draw enabled. Use /lottery draw when ready.":        "Sorteo manual activado. Usa /lottery draw cuando estés listo.",
		"Successfully purchased %d tickets for %d skulls!":          "¡Has comprado %d boletos por %d calaveras!",
		"How many tickets would you like? (%d skulls per ticket)":   "¿Cuántos boletos quieres? (%d calaveras por boleto)",
		"Your balance: %d skulls":                                   "Tu saldo: %d calaveras",
		"%s's balance: %d skulls":                                   "Saldo de %s: %d calaveras",
		"Transferred %d skulls to %s.":                              "Transferiste %d calaveras a %s.",
		"Awarded %d skulls to %s.":                                  "Otorgaste %d calaveras a %s.",
		"Insufficient funds.":                                       "Fondos insuficientes.",
		"Congratulations! You won the lottery for **%s**!":          "¡Felicidades! ¡Ganaste la lotería de **%s**!",
		"The lottery for **%s** ended with insufficient participants. Minimum required: %d": "La lotería de **%s** terminó sin suficientes participantes. Mínimo requerido: %d",
	}

	for key, translation := range entries {
		if err := message.SetString(es, key, translation); err != nil {
			panic(err)
		}
	}
}
