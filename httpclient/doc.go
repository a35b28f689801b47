// Package httpclient talks to the model sidecars and hosted model APIs.
// Requests are JSON or streamed multipart audio uploads, responses are
// decoded JSON, and failures come back as *Error classified by Kind.
//
//	c, _ := httpclient.New(httpclient.Config{BaseURL: "http://localhost:8387", Timeout: 10 * time.Minute})
//	form := httpclient.NewAudioForm("audio", chunkPath).Set("language", "ar")
//	var out whisperResponse
//	err := c.PostForm(ctx, "/transcribe", form, &out)
package httpclient
