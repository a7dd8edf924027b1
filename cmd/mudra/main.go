// Command mudra turns hand gestures seen by a webcam into control messages
// published over MQTT.
package main

func main() {
	Execute()
}
