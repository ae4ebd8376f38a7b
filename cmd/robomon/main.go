package main

import (
	"flag"
	"log"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/robotalks/joydrive/pkg/l1/comm/mqtt"
	"github.com/robotalks/joydrive/pkg/l1/msgs"

	_ "github.com/robotalks/joydrive/pkg/joystick/msgs"
)

var (
	mqttURL = "mqtt://localhost:1883/robo/"
	filter  = "#"
)

func init() {
	if val := os.Getenv("ROBO_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&filter, "topic", filter, "Topic filter, e.g. motor/#.")
}

func describe(topic string, payload []byte) string {
	if strings.HasSuffix(topic, "/meta") {
		if len(payload) == 0 {
			return "unregistered"
		}
		return string(payload)
	}
	typed, err := msgs.DecodeTyped(payload)
	if err != nil {
		return "bad message: " + err.Error()
	}
	msg, err := typed.Decode()
	if err != nil {
		return "decode error: " + err.Error()
	}
	return "#" + strconv.FormatUint(uint64(typed.Sequence), 10) + " [" +
		reflect.Indirect(reflect.ValueOf(msg)).Type().Name() + "] " +
		msg.(msgs.SerializableMessage).Serializable().String()
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	q.Sub(filter, func(topic string, payload []byte) {
		log.Printf("%s: %s", topic, describe(topic, payload))
	})
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	select {}
}
