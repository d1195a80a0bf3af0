package i18n

var catalogs = map[Locale]map[string]string{
	PtBR: {
		"upload_title":   "Enviar exame em PDF",
		"upload_note":    "Apenas PDF • até {max} MB",
		"select_pdf":     "Selecionar PDF",
		"file_label":     "Arquivo",
		"size_label":     "Tamanho",
		"change_file":    "Trocar arquivo",
		"send_now":       "Enviar agora",
		"sending":        "Enviando...",
		"recent_uploads": "Envios recentes",
		"clear":          "Limpar",
		"cleared":        "Histórico limpo.",
		"none_yet":       "Nenhum envio ainda.",
		"retry":          "Reenviar",
		"success_msg":    "Exame enviado com sucesso. Obrigado!",
		"error_msg":      "Falha ao enviar o PDF. Tente novamente.",
		"failed_entry":   "Falha ao enviar.",
		"invalid_format": "Formato inválido. Envie um arquivo PDF.",
		"too_large":      "Arquivo muito grande. Máximo {max} MB.",
		"persist_failed": "Não foi possível salvar o histórico de envios.",
		"busy":           "Um envio já está em andamento.",
		"no_file":        "Nenhum arquivo selecionado.",
		"not_found":      "Envio {id} não encontrado.",
		"not_retryable":  "O envio {id} já foi concluído.",
		"status_sent":    "enviado",
		"status_failed":  "falhou",
		"online":         "online",
		"offline":        "offline",
		"exams_title":    "Exames",
		"no_exams":       "Nenhum exame encontrado.",
		"exam_not_found": "Exame {id} não encontrado.",
		"lab_label":      "Laboratório",
		"date_label":     "Data",
	},
	EnUS: {
		"upload_title":   "Upload lab exam PDF",
		"upload_note":    "PDF only • up to {max} MB",
		"select_pdf":     "Select PDF",
		"file_label":     "File",
		"size_label":     "Size",
		"change_file":    "Change file",
		"send_now":       "Upload now",
		"sending":        "Uploading...",
		"recent_uploads": "Recent uploads",
		"clear":          "Clear",
		"cleared":        "History cleared.",
		"none_yet":       "No uploads yet.",
		"retry":          "Retry",
		"success_msg":    "Upload successful. Thank you!",
		"error_msg":      "Failed to upload PDF. Please try again.",
		"failed_entry":   "Upload failed.",
		"invalid_format": "Invalid format. Please upload a PDF.",
		"too_large":      "File too large. Max {max} MB.",
		"persist_failed": "Could not save the upload history.",
		"busy":           "An upload is already in progress.",
		"no_file":        "No file selected.",
		"not_found":      "Upload {id} not found.",
		"not_retryable":  "Upload {id} was already sent.",
		"status_sent":    "sent",
		"status_failed":  "failed",
		"online":         "online",
		"offline":        "offline",
		"exams_title":    "Exams",
		"no_exams":       "No exams found.",
		"exam_not_found": "Exam {id} not found.",
		"lab_label":      "Lab",
		"date_label":     "Date",
	},
}
