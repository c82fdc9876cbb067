package bot

var translations = map[string]map[string]string{
	"en": {
		"notice_removed":          "{mention} ❌ Disallowed word detected!",
		"notice_flagged":          "{mention} ⚠️ Potential disallowed word detected. Admins have been notified.",
		"author_security":         "Sentinel Denylist",
		"footer_brand":            "Sentinel",
		"audit_title":             "Security log",
		"audit_desc":              "A moderation event was recorded.",
		"audit_level":             "Level",
		"audit_details":           "Details",
		"field_event":             "Event",
		"field_user":              "User",
		"field_count":             "Occurrences",
		"field_mode":              "Mode",
		"field_entries":           "Entries",
		"field_last_success":      "Last refresh",
		"field_last_attempt":      "Last attempt",
		"field_last_error":        "Last error",
		"field_refreshes":         "Refreshes",
		"field_failures":          "Failed refreshes",
		"field_token":             "Token",
		"field_entry":             "Entry",
		"field_total":             "Total",
		"field_outcomes":          "By outcome",
		"field_levels":            "By level",
		"value_system":            "System",
		"value_never":             "never",
		"value_none":              "none",
		"mode_audit":              "audit",
		"mode_normal":             "normal",
		"event_denylist_match":    "Denylisted word",
		"event_denylist_refresh":  "Denylist refresh failed",
		"event_moderation_failed": "Moderation failed",
		"status_title":            "Denylist status",
		"status_desc":             "Current state of the shared denylist.",
		"check_title":             "Denylist check",
		"check_match":             "This text would be flagged.",
		"check_clean":             "No denylisted word found.",
		"refresh_title":           "Denylist refresh",
		"refresh_ok":              "The denylist was reloaded.",
		"refresh_failed":          "Refresh failed, the previous list is still in use.",
		"report_title":            "Denylist report",
		"report_desc":             "Recorded events for the selected period.",
		"report_no_store":         "No database configured, nothing is recorded.",
		"error_title":             "Error",
		"error_only_guild":        "This command can only be used in a server.",
		"error_unknown":           "Unknown command.",
	},
	"fr": {
		"notice_removed":          "{mention} ❌ Mot interdit detecte !",
		"notice_flagged":          "{mention} ⚠️ Mot potentiellement interdit detecte. Les administrateurs ont ete prevenus.",
		"author_security":         "Sentinel Denylist",
		"footer_brand":            "Sentinel",
		"audit_title":             "Journal de securite",
		"audit_desc":              "Un evenement de moderation a ete enregistre.",
		"audit_level":             "Niveau",
		"audit_details":           "Details",
		"field_event":             "Evenement",
		"field_user":              "Utilisateur",
		"field_count":             "Occurrences",
		"field_mode":              "Mode",
		"field_entries":           "Entrees",
		"field_last_success":      "Dernier rafraichissement",
		"field_last_attempt":      "Derniere tentative",
		"field_last_error":        "Derniere erreur",
		"field_refreshes":         "Rafraichissements",
		"field_failures":          "Echecs",
		"field_token":             "Mot",
		"field_entry":             "Entree",
		"field_total":             "Total",
		"field_outcomes":          "Par resultat",
		"field_levels":            "Par niveau",
		"value_system":            "Systeme",
		"value_never":             "jamais",
		"value_none":              "aucun",
		"mode_audit":              "audit",
		"mode_normal":             "normal",
		"event_denylist_match":    "Mot interdit",
		"event_denylist_refresh":  "Echec du rafraichissement",
		"event_moderation_failed": "Echec de moderation",
		"status_title":            "Statut de la liste",
		"status_desc":             "Etat actuel de la liste partagee.",
		"check_title":             "Verification",
		"check_match":             "Ce texte serait signale.",
		"check_clean":             "Aucun mot interdit trouve.",
		"refresh_title":           "Rafraichissement",
		"refresh_ok":              "La liste a ete rechargee.",
		"refresh_failed":          "Echec, la liste precedente reste utilisee.",
		"report_title":            "Rapport",
		"report_desc":             "Evenements enregistres sur la periode choisie.",
		"report_no_store":         "Aucune base de donnees configuree, rien n'est enregistre.",
		"error_title":             "Erreur",
		"error_only_guild":        "Cette commande doit etre utilisee dans un serveur.",
		"error_unknown":           "Commande inconnue.",
	},
	"es": {
		"notice_removed":          "{mention} ❌ ¡Palabra prohibida detectada!",
		"notice_flagged":          "{mention} ⚠️ Posible palabra prohibida detectada. Se ha avisado a los administradores.",
		"author_security":         "Sentinel Denylist",
		"footer_brand":            "Sentinel",
		"audit_title":             "Registro de seguridad",
		"audit_desc":              "Se registro un evento de moderacion.",
		"audit_level":             "Nivel",
		"audit_details":           "Detalles",
		"field_event":             "Evento",
		"field_user":              "Usuario",
		"field_count":             "Ocurrencias",
		"field_mode":              "Modo",
		"field_entries":           "Entradas",
		"field_last_success":      "Ultima actualizacion",
		"field_last_attempt":      "Ultimo intento",
		"field_last_error":        "Ultimo error",
		"field_refreshes":         "Actualizaciones",
		"field_failures":          "Fallos",
		"field_token":             "Palabra",
		"field_entry":             "Entrada",
		"field_total":             "Total",
		"field_outcomes":          "Por resultado",
		"field_levels":            "Por nivel",
		"value_system":            "Sistema",
		"value_never":             "nunca",
		"value_none":              "ninguno",
		"mode_audit":              "audit",
		"mode_normal":             "normal",
		"event_denylist_match":    "Palabra prohibida",
		"event_denylist_refresh":  "Fallo al actualizar la lista",
		"event_moderation_failed": "Fallo de moderacion",
		"status_title":            "Estado de la lista",
		"status_desc":             "Estado actual de la lista compartida.",
		"check_title":             "Comprobacion",
		"check_match":             "Este texto seria marcado.",
		"check_clean":             "No se encontro ninguna palabra prohibida.",
		"refresh_title":           "Actualizacion",
		"refresh_ok":              "La lista se recargo.",
		"refresh_failed":          "Fallo, se sigue usando la lista anterior.",
		"report_title":            "Informe",
		"report_desc":             "Eventos registrados en el periodo elegido.",
		"report_no_store":         "No hay base de datos configurada, no se registra nada.",
		"error_title":             "Error",
		"error_only_guild":        "Este comando solo se puede usar en un servidor.",
		"error_unknown":           "Comando desconocido.",
	},
}

func (b *Bot) t(lang, key string) string {
	return translate(lang, key)
}

func translate(lang, key string) string {
	if table, ok := translations[lang]; ok {
		if value, ok := table[key]; ok {
			return value
		}
	}
	if value, ok := translations["en"][key]; ok {
		return value
	}
	return key
}
